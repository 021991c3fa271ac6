// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package tracing

import (
	"context"
	"time"
)

// Span names used by the runtime
const (
	SpanAgentRun      = "agent_run"
	SpanLLMCall       = "llm_call"
	SpanSessionCreate = "session_create"
	SpanTurn          = "turn"
)

// Common attribute keys
const (
	AttrAppName      = "app_name"
	AttrUserID       = "user_id"
	AttrSessionID    = "session_id"
	AttrInvocationID = "invocation_id"
	AttrAgentName    = "agent_name"
	AttrModel        = "model"
	AttrStreaming    = "streaming"
	AttrError        = "error"
	AttrFinishReason = "finish_reason"
	AttrTotalTokens  = "total_tokens"
)

// SpanContext contains the recorded data of a span
type SpanContext struct {
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	Name         string         `json:"name"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// Duration returns the elapsed time of a finished span
func (c *SpanContext) Duration() time.Duration {
	if c.EndTime.IsZero() {
		return 0
	}
	return c.EndTime.Sub(c.StartTime)
}

// SpanEvent represents an event in a span
type SpanEvent struct {
	Name       string         `json:"name"`
	Timestamp  time.Time      `json:"timestamp"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Span represents a span in a trace
type Span interface {
	// End ends the span. Calling End more than once has no effect.
	End()

	// AddEvent adds an event to the span
	AddEvent(name string, attributes map[string]any)

	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)

	// RecordError stores err on the span under the error attribute
	RecordError(err error)

	// Context returns the span context
	Context() *SpanContext
}

// Tracer is an interface for creating spans
type Tracer interface {
	// StartSpan starts a span as a child of the span held by ctx, if any
	StartSpan(ctx context.Context, name string, attributes map[string]any) (Span, context.Context)

	// Close cleans up the tracer
	Close(ctx context.Context) error
}

// SpanProcessor handles finished spans
type SpanProcessor interface {
	OnStart(span *StandardSpan)
	OnEnd(span *StandardSpan)

	// ForceFlush exports everything buffered so far
	ForceFlush()

	Shutdown(ctx context.Context) error
}

// SpanExporter sends finished spans somewhere
type SpanExporter interface {
	ExportSpans(ctx context.Context, spans []*StandardSpan) error
	Shutdown(ctx context.Context) error
}
