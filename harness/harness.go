// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

// Package harness drives a single conversational turn: it creates a session,
// submits one user message and returns the agent's final reply.
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryichk/first-agent-go/config"
	"github.com/ryichk/first-agent-go/event"
	"github.com/ryichk/first-agent-go/interfaces"
	"github.com/ryichk/first-agent-go/metrics"
	"github.com/ryichk/first-agent-go/tracing"
)

// Harness runs turns against a runner and a session store
type Harness struct {
	runner   interfaces.Runner
	sessions interfaces.SessionCreator
	out      io.Writer
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	strict   bool
}

// Option configures a Harness
type Option func(*Harness)

// WithOutput sets where progress lines are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Harness) {
		if w == nil {
			w = io.Discard
		}
		h.out = w
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Harness) {
		h.metrics = m
	}
}

// WithStrictFinalResponse makes RunTurn fail with ErrNoFinalResponse instead
// of returning an empty reply when no final event carries text
func WithStrictFinalResponse() Option {
	return func(h *Harness) {
		h.strict = true
	}
}

func New(runner interfaces.Runner, sessions interfaces.SessionCreator, opts ...Option) *Harness {
	h := &Harness{
		runner:   runner,
		sessions: sessions,
		out:      os.Stdout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunTurn creates a session with the given identifiers and runs one turn with
// a default Harness.
func RunTurn(ctx context.Context, runner interfaces.Runner, sessions interfaces.SessionCreator, appName, userID, sessionID, userText string) (string, error) {
	return New(runner, sessions).RunTurn(ctx, appName, userID, sessionID, userText)
}

// RunTurn creates the session, submits userText as a user message and returns
// the trimmed text of the first final event with non-empty text. Events after
// that one are not consumed.
func (h *Harness) RunTurn(ctx context.Context, appName, userID, sessionID, userText string) (string, error) {
	if err := h.validate(appName, userID, sessionID, userText); err != nil {
		return "", err
	}

	span, ctx := tracing.StartSpan(ctx, tracing.SpanTurn, map[string]any{
		tracing.AttrAppName:   appName,
		tracing.AttrUserID:    userID,
		tracing.AttrSessionID: sessionID,
	})
	defer span.End()

	log := h.logger.With().
		Str("app_name", appName).
		Str("user_id", userID).
		Str("session_id", sessionID).
		Logger()
	start := time.Now()

	fmt.Fprintf(h.out, "Creating session: %s\n", sessionID)
	if err := h.createSession(ctx, appName, userID, sessionID); err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("session creation failed")
		return "", err
	}
	log.Debug().Msg("session created")

	fmt.Fprintf(h.out, "User Message: '%s'\n", userText)
	message := event.NewTextContent(event.RoleUser, userText)

	reply, found := "", false
	for e, err := range h.runner.Run(ctx, userID, sessionID, message) {
		if err != nil {
			span.RecordError(err)
			log.Error().Err(err).Msg("agent run failed")
			return "", &RuntimeInvocationError{Err: err}
		}
		if !e.IsFinalResponse() {
			continue
		}
		if text := strings.TrimSpace(e.Text()); text != "" {
			reply, found = text, true
			break
		}
	}

	if !found {
		if h.strict {
			span.RecordError(ErrNoFinalResponse)
			log.Error().Err(ErrNoFinalResponse).Msg("agent run failed")
			return "", &RuntimeInvocationError{Err: ErrNoFinalResponse}
		}
		log.Warn().Msg("agent produced no final response")
	}

	fmt.Fprintf(h.out, "\n--- Agent Response ---\n%s\n--- End of Response ---\n\n", reply)
	log.Info().Dur("duration", time.Since(start)).Int("reply_length", len(reply)).Msg("turn completed")
	return reply, nil
}

func (h *Harness) validate(appName, userID, sessionID, userText string) error {
	for _, f := range []struct{ name, value string }{
		{"app_name", appName},
		{"user_id", userID},
		{"session_id", sessionID},
		{"user_text", userText},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &config.ConfigurationError{Field: f.name, Err: config.ErrMissingValue}
		}
	}
	if served := h.runner.AppName(); served != appName {
		return &config.ConfigurationError{
			Field: "app_name",
			Err:   fmt.Errorf("runner serves app %q, not %q", served, appName),
		}
	}
	return nil
}

func (h *Harness) createSession(ctx context.Context, appName, userID, sessionID string) error {
	span, ctx := tracing.StartSpan(ctx, tracing.SpanSessionCreate, nil)
	defer span.End()

	_, err := h.sessions.Create(ctx, appName, userID, sessionID)
	h.metrics.RecordSessionCreate(appName, err)
	if err != nil {
		span.RecordError(err)
		return &SessionCreationError{AppName: appName, UserID: userID, SessionID: sessionID, Err: err}
	}
	return nil
}
