// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}

	span, ctx := tracer.StartSpan(context.Background(), SpanAgentRun, map[string]any{AttrAgentName: "assistant_agent"})
	span.AddEvent("partial", nil)
	span.SetAttribute(AttrModel, "gemini-2.5-flash")
	span.RecordError(errors.New("boom"))
	span.End()

	assert.NotNil(t, span.Context())
	assert.Nil(t, SpanFromContext(ctx), "noop spans are not stored in the context")
	assert.NoError(t, tracer.Close(ctx))
}

func TestStandardSpanCreation(t *testing.T) {
	tracer := NewStandardTracer()

	span, ctx := tracer.StartSpan(context.Background(), SpanAgentRun, map[string]any{
		AttrAgentName: "assistant_agent",
	})

	stdSpan, ok := span.(*StandardSpan)
	require.True(t, ok, "span should be of type *StandardSpan")

	sc := span.Context()
	assert.Equal(t, SpanAgentRun, sc.Name)
	assert.NotEmpty(t, sc.TraceID)
	assert.NotEmpty(t, sc.SpanID)
	assert.Empty(t, sc.ParentSpanID)
	assert.Equal(t, "assistant_agent", sc.Attributes[AttrAgentName])
	assert.Equal(t, span, SpanFromContext(ctx))
	assert.Equal(t, span, GetActiveSpan(ctx))

	span.AddEvent("partial", map[string]any{"index": 1})
	span.SetAttribute(AttrStreaming, true)
	span.SetAttributes(map[string]any{AttrModel: "gemini-2.5-flash"})
	span.RecordError(errors.New("model unavailable"))
	span.End()

	assert.True(t, stdSpan.completed)
	assert.False(t, sc.EndTime.IsZero())
	assert.GreaterOrEqual(t, sc.Duration(), time.Duration(0))
	assert.Equal(t, true, sc.Attributes[AttrStreaming])
	assert.Equal(t, "model unavailable", sc.Attributes[AttrError])
	assert.Len(t, stdSpan.Events(), 1)

	// Writes after End are ignored
	span.SetAttribute("late", 1)
	span.AddEvent("late", nil)
	assert.NotContains(t, sc.Attributes, "late")
	assert.Len(t, stdSpan.Events(), 1)

	assert.NoError(t, tracer.Close(context.Background()))
}

func TestSpanHierarchy(t *testing.T) {
	tracer := NewStandardTracer()

	parent, ctx := tracer.StartSpan(context.Background(), SpanAgentRun, nil)
	child, _ := tracer.StartSpan(ctx, SpanLLMCall, nil)
	other, _ := tracer.StartSpan(context.Background(), SpanAgentRun, nil)

	assert.Equal(t, parent.Context().SpanID, child.Context().ParentSpanID)
	assert.Equal(t, parent.Context().TraceID, child.Context().TraceID)
	assert.NotEqual(t, parent.Context().TraceID, other.Context().TraceID)
}

type recordingExporter struct {
	mu             sync.Mutex
	spans          []*StandardSpan
	shutdownCalled bool
	err            error
}

func (e *recordingExporter) ExportSpans(ctx context.Context, spans []*StandardSpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return e.err
}

func (e *recordingExporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdownCalled = true
	return nil
}

func (e *recordingExporter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.spans)
}

func TestBatchProcessor(t *testing.T) {
	exporter := &recordingExporter{}
	processor := NewBatchSpanProcessor(exporter,
		WithBatchSize(10),
		WithExportInterval(time.Hour),
	)
	tracer := NewStandardTracer(processor)

	for range 3 {
		span, _ := tracer.StartSpan(context.Background(), SpanLLMCall, nil)
		span.End()
	}

	processor.ForceFlush()
	assert.Equal(t, 3, exporter.count())

	span, _ := tracer.StartSpan(context.Background(), SpanAgentRun, nil)
	span.End()

	require.NoError(t, tracer.Close(context.Background()))
	assert.Equal(t, 4, exporter.count(), "shutdown exports remaining spans")
	assert.True(t, exporter.shutdownCalled)

	// Spans ending after shutdown are dropped and flushing does not block
	late, _ := tracer.StartSpan(context.Background(), SpanAgentRun, nil)
	late.End()
	processor.ForceFlush()
	assert.Equal(t, 4, exporter.count())
}

func TestBatchProcessorExportsFullBatch(t *testing.T) {
	exporter := &recordingExporter{}
	processor := NewBatchSpanProcessor(exporter, WithBatchSize(2), WithExportInterval(time.Hour))
	tracer := NewStandardTracer(processor)
	defer tracer.Close(context.Background())

	for range 2 {
		span, _ := tracer.StartSpan(context.Background(), SpanLLMCall, nil)
		span.End()
	}

	assert.Eventually(t, func() bool { return exporter.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestSimpleProcessor(t *testing.T) {
	var buf bytes.Buffer
	exporter := &recordingExporter{err: errors.New("sink down")}
	tracer := NewStandardTracer(NewSimpleSpanProcessor(exporter, zerolog.New(&buf)))

	span, _ := tracer.StartSpan(context.Background(), SpanLLMCall, nil)
	span.End()
	span.End()

	assert.Equal(t, 1, exporter.count(), "ending twice exports once")
	assert.Contains(t, buf.String(), "sink down")
}

func TestLogExporter(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewStandardTracer(NewSimpleSpanProcessor(NewLogExporter(zerolog.New(&buf)), zerolog.Nop()))

	span, _ := tracer.StartSpan(context.Background(), SpanAgentRun, map[string]any{AttrAgentName: "assistant_agent"})
	span.End()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "span finished", line["message"])
	assert.Equal(t, SpanAgentRun, line["span"])
	assert.Equal(t, "assistant_agent", line[AttrAgentName])
}

func TestFileExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")
	exporter, err := NewFileExporter(dir)
	require.NoError(t, err)

	tracer := NewStandardTracer(NewSimpleSpanProcessor(exporter, zerolog.Nop()))
	span, _ := tracer.StartSpan(context.Background(), SpanLLMCall, map[string]any{AttrModel: "gpt-4o"})
	span.AddEvent("chunk", nil)
	span.End()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, SpanLLMCall, records[0]["name"])
	assert.Equal(t, span.Context().SpanID, records[0]["span_id"])
	assert.Len(t, records[0]["events"], 1)
}

func TestMultiExporter(t *testing.T) {
	failing := &recordingExporter{err: errors.New("first failed")}
	healthy := &recordingExporter{}
	multi := NewMultiExporter(failing, healthy)

	span, _ := NewStandardTracer().StartSpan(context.Background(), SpanAgentRun, nil)
	err := multi.ExportSpans(context.Background(), []*StandardSpan{span.(*StandardSpan)})

	assert.ErrorContains(t, err, "first failed")
	assert.Equal(t, 1, healthy.count(), "a failing exporter does not block the others")
	require.NoError(t, multi.Shutdown(context.Background()))
	assert.True(t, failing.shutdownCalled)
	assert.True(t, healthy.shutdownCalled)
}

func TestInitTracing(t *testing.T) {
	t.Cleanup(func() { SetTracer(nil) })

	require.NoError(t, InitTracing(DefaultConfig()))
	assert.IsType(t, &NoopTracer{}, GetTracer())

	dir := t.TempDir()
	config := DefaultConfig()
	config.Enabled = true
	config.BackupDir = dir
	require.NoError(t, InitTracing(config))
	assert.IsType(t, &StandardTracer{}, GetTracer())

	span, ctx := StartSpan(context.Background(), SpanAgentRun, nil)
	child, _ := StartSpan(ctx, SpanLLMCall, nil)
	child.End()
	span.End()

	require.NoError(t, ShutdownTracing(context.Background()))
	assert.IsType(t, &NoopTracer{}, GetTracer())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "shutdown should flush spans to the backup directory")
}

func TestInMemoryExporter(t *testing.T) {
	exporter := &InMemoryExporter{}
	tracer := NewStandardTracer(NewSimpleSpanProcessor(exporter, zerolog.Nop()))

	run, ctx := tracer.StartSpan(context.Background(), SpanAgentRun, nil)
	call, _ := tracer.StartSpan(ctx, SpanLLMCall, nil)
	call.End()
	run.End()

	assert.Len(t, exporter.Spans(), 2)
	require.Len(t, exporter.Named(SpanLLMCall), 1)
	assert.Equal(t, run.Context().SpanID, exporter.Named(SpanLLMCall)[0].Context().ParentSpanID)
}
