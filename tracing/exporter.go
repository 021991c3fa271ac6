// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogExporter writes finished spans as structured log lines
type LogExporter struct {
	logger zerolog.Logger
}

func NewLogExporter(logger zerolog.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

func (e *LogExporter) ExportSpans(ctx context.Context, spans []*StandardSpan) error {
	for _, span := range spans {
		sc := span.Context()
		e.logger.Debug().
			Str("trace_id", sc.TraceID).
			Str("span_id", sc.SpanID).
			Str("parent_span_id", sc.ParentSpanID).
			Str("span", sc.Name).
			Dur("duration", sc.Duration()).
			Fields(sc.Attributes).
			Msg("span finished")
	}
	return nil
}

func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// FileExporter writes each exported batch to a JSON file in a directory
type FileExporter struct {
	dir string
	mu  sync.Mutex
	seq int
}

// NewFileExporter creates the directory if needed
func NewFileExporter(dir string) (*FileExporter, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	return &FileExporter{dir: dir}, nil
}

type spanRecord struct {
	*SpanContext
	Events []SpanEvent `json:"events,omitempty"`
}

func (e *FileExporter) ExportSpans(ctx context.Context, spans []*StandardSpan) error {
	if len(spans) == 0 {
		return nil
	}

	records := make([]spanRecord, 0, len(spans))
	for _, span := range spans {
		records = append(records, spanRecord{SpanContext: span.Context(), Events: span.Events()})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal spans: %w", err)
	}

	e.mu.Lock()
	e.seq++
	name := fmt.Sprintf("spans_%s_%04d.json", time.Now().UTC().Format("20060102_150405"), e.seq)
	e.mu.Unlock()

	if err := os.WriteFile(filepath.Join(e.dir, name), data, 0600); err != nil {
		return fmt.Errorf("failed to write span file: %w", err)
	}
	return nil
}

func (e *FileExporter) Shutdown(ctx context.Context) error {
	return nil
}

// MultiExporter sends spans to multiple exporters
type MultiExporter struct {
	exporters []SpanExporter
}

func NewMultiExporter(exporters ...SpanExporter) *MultiExporter {
	return &MultiExporter{exporters: exporters}
}

// ExportSpans exports to every exporter and joins their errors
func (e *MultiExporter) ExportSpans(ctx context.Context, spans []*StandardSpan) error {
	var errs []error
	for _, exporter := range e.exporters {
		if err := exporter.ExportSpans(ctx, spans); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", exporter, err))
		}
	}
	return errors.Join(errs...)
}

func (e *MultiExporter) Shutdown(ctx context.Context) error {
	var errs []error
	for _, exporter := range e.exporters {
		if err := exporter.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InMemoryExporter keeps exported spans, useful in tests
type InMemoryExporter struct {
	mu    sync.Mutex
	spans []*StandardSpan
}

func (e *InMemoryExporter) ExportSpans(ctx context.Context, spans []*StandardSpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return nil
}

func (e *InMemoryExporter) Shutdown(ctx context.Context) error {
	return nil
}

// Spans returns the spans exported so far
func (e *InMemoryExporter) Spans() []*StandardSpan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*StandardSpan(nil), e.spans...)
}

// Named returns the exported spans with the given name
func (e *InMemoryExporter) Named(name string) []*StandardSpan {
	var out []*StandardSpan
	for _, span := range e.Spans() {
		if span.Context().Name == name {
			out = append(out, span)
		}
	}
	return out
}
