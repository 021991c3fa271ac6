// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const exportTimeout = 30 * time.Second

// SimpleSpanProcessor exports every span synchronously as it ends
type SimpleSpanProcessor struct {
	exporter SpanExporter
	logger   zerolog.Logger
}

func NewSimpleSpanProcessor(exporter SpanExporter, logger zerolog.Logger) *SimpleSpanProcessor {
	return &SimpleSpanProcessor{exporter: exporter, logger: logger}
}

func (p *SimpleSpanProcessor) OnStart(span *StandardSpan) {}

func (p *SimpleSpanProcessor) OnEnd(span *StandardSpan) {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()
	if err := p.exporter.ExportSpans(ctx, []*StandardSpan{span}); err != nil {
		p.logger.Error().Err(err).Str("span", span.Context().Name).Msg("failed to export span")
	}
}

func (p *SimpleSpanProcessor) ForceFlush() {}

func (p *SimpleSpanProcessor) Shutdown(ctx context.Context) error {
	return p.exporter.Shutdown(ctx)
}

// BatchSpanProcessorOptions defines configuration options for the batch span processor
type BatchSpanProcessorOptions struct {
	// MaxQueueSize is the maximum number of spans waiting to be batched
	MaxQueueSize int
	// MaxBatchSize is the maximum number of spans exported at once
	MaxBatchSize int
	// ExportInterval is the interval for exporting
	ExportInterval time.Duration
	Logger         zerolog.Logger
}

// BatchProcessorOption is a function that sets options for the batch processor
type BatchProcessorOption func(*BatchSpanProcessorOptions)

// WithMaxQueueSize sets the maximum queue size
func WithMaxQueueSize(size int) BatchProcessorOption {
	return func(o *BatchSpanProcessorOptions) {
		if size > 0 {
			o.MaxQueueSize = size
		}
	}
}

// WithBatchSize sets the batch size
func WithBatchSize(size int) BatchProcessorOption {
	return func(o *BatchSpanProcessorOptions) {
		if size > 0 {
			o.MaxBatchSize = size
		}
	}
}

// WithExportInterval sets the export interval
func WithExportInterval(interval time.Duration) BatchProcessorOption {
	return func(o *BatchSpanProcessorOptions) {
		if interval > 0 {
			o.ExportInterval = interval
		}
	}
}

// WithProcessorLogger sets the logger used for export failures and dropped spans
func WithProcessorLogger(logger zerolog.Logger) BatchProcessorOption {
	return func(o *BatchSpanProcessorOptions) {
		o.Logger = logger
	}
}

// BatchSpanProcessor accumulates finished spans and exports them in batches
// from a background goroutine.
type BatchSpanProcessor struct {
	exporter SpanExporter
	options  BatchSpanProcessorOptions
	logger   zerolog.Logger

	mu    sync.Mutex
	spans []*StandardSpan

	queue    chan *StandardSpan
	flush    chan chan struct{}
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewBatchSpanProcessor(exporter SpanExporter, opts ...BatchProcessorOption) *BatchSpanProcessor {
	options := BatchSpanProcessorOptions{
		MaxQueueSize:   1000,
		MaxBatchSize:   100,
		ExportInterval: 5 * time.Second,
		Logger:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(&options)
	}

	p := &BatchSpanProcessor{
		exporter: exporter,
		options:  options,
		logger:   options.Logger,
		spans:    make([]*StandardSpan, 0, options.MaxBatchSize),
		queue:    make(chan *StandardSpan, options.MaxQueueSize),
		flush:    make(chan chan struct{}),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	go p.processLoop()

	return p
}

func (p *BatchSpanProcessor) processLoop() {
	defer close(p.stopped)

	ticker := time.NewTicker(p.options.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			p.drainQueue()
			p.exportBatch()
			return
		case <-ticker.C:
			p.exportBatch()
		case ack := <-p.flush:
			p.drainQueue()
			p.exportBatch()
			close(ack)
		case span := <-p.queue:
			p.add(span)
		}
	}
}

func (p *BatchSpanProcessor) add(span *StandardSpan) {
	p.mu.Lock()
	p.spans = append(p.spans, span)
	full := len(p.spans) >= p.options.MaxBatchSize
	p.mu.Unlock()

	if full {
		p.exportBatch()
	}
}

func (p *BatchSpanProcessor) drainQueue() {
	for {
		select {
		case span := <-p.queue:
			p.add(span)
		default:
			return
		}
	}
}

func (p *BatchSpanProcessor) exportBatch() {
	p.mu.Lock()
	if len(p.spans) == 0 {
		p.mu.Unlock()
		return
	}
	batch := p.spans
	p.spans = make([]*StandardSpan, 0, p.options.MaxBatchSize)
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	if err := p.exporter.ExportSpans(ctx, batch); err != nil {
		p.logger.Error().Err(err).Int("spans", len(batch)).Msg("failed to export spans")
		return
	}
	p.logger.Debug().Int("spans", len(batch)).Msg("exported spans")
}

func (p *BatchSpanProcessor) OnStart(span *StandardSpan) {}

// OnEnd queues the span, dropping it when the queue is full or the processor is shut down
func (p *BatchSpanProcessor) OnEnd(span *StandardSpan) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.queue <- span:
	default:
		p.logger.Warn().Str("span", span.Context().Name).Msg("span queue is full, dropping span")
	}
}

// ForceFlush exports every queued span and waits for the export to finish
func (p *BatchSpanProcessor) ForceFlush() {
	ack := make(chan struct{})
	select {
	case p.flush <- ack:
		<-ack
	case <-p.stopped:
	}
}

// Shutdown exports remaining spans and stops the background goroutine
func (p *BatchSpanProcessor) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.done) })

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-p.stopped:
	}

	if exporterErr := p.exporter.Shutdown(ctx); err == nil {
		err = exporterErr
	}
	return err
}
