// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package tracing

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StandardTracer records spans and hands finished ones to its processors
type StandardTracer struct {
	processors []SpanProcessor
	mu         sync.RWMutex
}

// StandardSpan is the standard implementation of a Span
type StandardSpan struct {
	tracer    *StandardTracer
	ctx       *SpanContext
	events    []SpanEvent
	mu        sync.Mutex
	completed bool
}

// NewStandardTracer creates a new StandardTracer
func NewStandardTracer(processors ...SpanProcessor) *StandardTracer {
	return &StandardTracer{
		processors: processors,
	}
}

// AddProcessor adds a processor to the tracer
func (t *StandardTracer) AddProcessor(processor SpanProcessor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processors = append(t.processors, processor)
}

func (t *StandardTracer) snapshot() []SpanProcessor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]SpanProcessor(nil), t.processors...)
}

// StartSpan starts a new span
func (t *StandardTracer) StartSpan(ctx context.Context, name string, attributes map[string]any) (Span, context.Context) {
	spanContext := &SpanContext{
		TraceID:    uuid.New().String(),
		SpanID:     uuid.New().String(),
		Name:       name,
		StartTime:  time.Now().UTC(),
		Attributes: make(map[string]any, len(attributes)),
	}
	if parent := SpanFromContext(ctx); parent != nil {
		spanContext.TraceID = parent.Context().TraceID
		spanContext.ParentSpanID = parent.Context().SpanID
	}
	maps.Copy(spanContext.Attributes, attributes)

	span := &StandardSpan{
		tracer: t,
		ctx:    spanContext,
	}

	for _, processor := range t.snapshot() {
		processor.OnStart(span)
	}

	return span, ContextWithSpan(ctx, span)
}

// Close shuts down every processor and returns the joined errors
func (t *StandardTracer) Close(ctx context.Context) error {
	var errs []error
	for _, processor := range t.snapshot() {
		if err := processor.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// End ends the span
func (s *StandardSpan) End() {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.ctx.EndTime = time.Now().UTC()
	s.completed = true
	s.mu.Unlock()

	for _, processor := range s.tracer.snapshot() {
		processor.OnEnd(s)
	}
}

// AddEvent adds an event to the span
func (s *StandardSpan) AddEvent(name string, attributes map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return
	}

	s.events = append(s.events, SpanEvent{
		Name:       name,
		Timestamp:  time.Now().UTC(),
		Attributes: attributes,
	})
}

// SetAttribute sets an attribute on the span
func (s *StandardSpan) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return
	}
	s.ctx.Attributes[key] = value
}

// SetAttributes sets multiple attributes on the span
func (s *StandardSpan) SetAttributes(attributes map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return
	}
	maps.Copy(s.ctx.Attributes, attributes)
}

func (s *StandardSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.SetAttribute(AttrError, err.Error())
}

// Context returns the span context
func (s *StandardSpan) Context() *SpanContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Events returns a copy of the recorded span events
func (s *StandardSpan) Events() []SpanEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SpanEvent(nil), s.events...)
}
