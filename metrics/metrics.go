// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the Prometheus collectors for agent turns.
// All Record methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	TurnsTotal   *prometheus.CounterVec
	TurnDuration *prometheus.HistogramVec

	EventsTotal *prometheus.CounterVec

	ModelCallsTotal   *prometheus.CounterVec
	ModelCallDuration *prometheus.HistogramVec
	ModelTokensTotal  *prometheus.CounterVec

	SessionsCreated     *prometheus.CounterVec
	GuardrailTripsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		TurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_turns_total",
				Help: "Total number of agent turns",
			},
			[]string{"agent", "status"},
		),
		TurnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agent_turn_duration_seconds",
				Help:    "Duration of agent turns in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent"},
		),
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_events_total",
				Help: "Total number of events emitted by agents",
			},
			[]string{"agent", "kind"},
		),
		ModelCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_calls_total",
				Help: "Total number of model provider calls",
			},
			[]string{"model", "status"},
		),
		ModelCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "model_call_duration_seconds",
				Help:    "Duration of model provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		ModelTokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_tokens_total",
				Help: "Total number of tokens reported by model providers",
			},
			[]string{"model", "type"},
		),
		SessionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessions_created_total",
				Help: "Total number of session creation attempts",
			},
			[]string{"app", "status"},
		),
		GuardrailTripsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardrail_trips_total",
				Help: "Total number of guardrail rejections",
			},
			[]string{"guardrail"},
		),
	}

	m.registry.MustRegister(
		m.TurnsTotal,
		m.TurnDuration,
		m.EventsTotal,
		m.ModelCallsTotal,
		m.ModelCallDuration,
		m.ModelTokensTotal,
		m.SessionsCreated,
		m.GuardrailTripsTotal,
	)

	return m
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// RecordTurn records a finished agent turn
func (m *Metrics) RecordTurn(agent string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(agent, status(err)).Inc()
	m.TurnDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordEvent counts an emitted event as partial or final
func (m *Metrics) RecordEvent(agent string, partial bool) {
	if m == nil {
		return
	}
	kind := "final"
	if partial {
		kind = "partial"
	}
	m.EventsTotal.WithLabelValues(agent, kind).Inc()
}

// RecordModelCall records a provider call and its duration
func (m *Metrics) RecordModelCall(model string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.ModelCallsTotal.WithLabelValues(model, status(err)).Inc()
	m.ModelCallDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordTokens adds prompt and completion token counts
func (m *Metrics) RecordTokens(model string, prompt, completion int) {
	if m == nil {
		return
	}
	if prompt > 0 {
		m.ModelTokensTotal.WithLabelValues(model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		m.ModelTokensTotal.WithLabelValues(model, "completion").Add(float64(completion))
	}
}

// RecordSessionCreate records a session creation attempt
func (m *Metrics) RecordSessionCreate(app string, err error) {
	if m == nil {
		return
	}
	m.SessionsCreated.WithLabelValues(app, status(err)).Inc()
}

// RecordGuardrailTrip counts a guardrail rejection
func (m *Metrics) RecordGuardrailTrip(guardrail string) {
	if m == nil {
		return
	}
	m.GuardrailTripsTotal.WithLabelValues(guardrail).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
