// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

const spanKey contextKey = "agent-trace-span"

var (
	globalTracer Tracer = &NoopTracer{}
	globalMutex  sync.RWMutex
)

// NoopTracer is a tracer that does nothing
type NoopTracer struct{}

func (t *NoopTracer) StartSpan(ctx context.Context, name string, attributes map[string]any) (Span, context.Context) {
	return &NoopSpan{}, ctx
}

func (t *NoopTracer) Close(ctx context.Context) error {
	return nil
}

// NoopSpan is a span that does nothing
type NoopSpan struct{}

func (s *NoopSpan) End()                                            {}
func (s *NoopSpan) AddEvent(name string, attributes map[string]any) {}
func (s *NoopSpan) SetAttribute(key string, value any)              {}
func (s *NoopSpan) SetAttributes(attributes map[string]any)         {}
func (s *NoopSpan) RecordError(err error)                           {}

func (s *NoopSpan) Context() *SpanContext {
	return &SpanContext{Attributes: map[string]any{}}
}

// GetTracer returns the global tracer
func GetTracer() Tracer {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalTracer
}

// SetTracer sets the global tracer. A nil tracer resets it to a NoopTracer.
func SetTracer(tracer Tracer) {
	if tracer == nil {
		tracer = &NoopTracer{}
	}
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalTracer = tracer
}

// ContextWithSpan adds a span to the context
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, spanKey, span)
}

// SpanFromContext gets a span from the context
func SpanFromContext(ctx context.Context) Span {
	span, _ := ctx.Value(spanKey).(Span)
	return span
}

// StartSpan starts a span with the global tracer
func StartSpan(ctx context.Context, name string, attributes map[string]any) (Span, context.Context) {
	return GetTracer().StartSpan(ctx, name, attributes)
}

// GetActiveSpan gets the active span from the context
func GetActiveSpan(ctx context.Context) Span {
	return SpanFromContext(ctx)
}

// Config contains configuration for tracing
type Config struct {
	// Enabled installs a StandardTracer; otherwise spans are dropped
	Enabled bool

	// LogSpans writes every finished span to Logger
	LogSpans bool

	// BackupDir receives finished spans as JSON files when set
	BackupDir string

	BatchSize      int
	ExportInterval time.Duration

	Logger zerolog.Logger
}

// DefaultConfig returns the default tracing configuration
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		LogSpans:       true,
		BatchSize:      100,
		ExportInterval: 5 * time.Second,
		Logger:         zerolog.Nop(),
	}
}

// InitTracing installs the global tracer described by config
func InitTracing(config Config) error {
	if !config.Enabled {
		SetTracer(&NoopTracer{})
		return nil
	}

	var exporters []SpanExporter
	if config.LogSpans {
		exporters = append(exporters, NewLogExporter(config.Logger))
	}
	if config.BackupDir != "" {
		fileExporter, err := NewFileExporter(config.BackupDir)
		if err != nil {
			return fmt.Errorf("failed to create file exporter: %w", err)
		}
		exporters = append(exporters, fileExporter)
	}

	var processors []SpanProcessor
	if len(exporters) > 0 {
		processors = append(processors, NewBatchSpanProcessor(NewMultiExporter(exporters...),
			WithBatchSize(config.BatchSize),
			WithExportInterval(config.ExportInterval),
			WithProcessorLogger(config.Logger),
		))
	}

	SetTracer(NewStandardTracer(processors...))
	return nil
}

// ShutdownTracing flushes and closes the global tracer, then resets it to a NoopTracer
func ShutdownTracing(ctx context.Context) error {
	globalMutex.Lock()
	tracer := globalTracer
	globalTracer = &NoopTracer{}
	globalMutex.Unlock()

	return tracer.Close(ctx)
}
