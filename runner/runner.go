// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryichk/first-agent-go/agent"
	"github.com/ryichk/first-agent-go/event"
	"github.com/ryichk/first-agent-go/guardrail"
	"github.com/ryichk/first-agent-go/interfaces"
	"github.com/ryichk/first-agent-go/metrics"
	"github.com/ryichk/first-agent-go/model"
	"github.com/ryichk/first-agent-go/session"
	"github.com/ryichk/first-agent-go/tracing"
)

var (
	ErrModelProviderRequired  = errors.New("model provider is required")
	ErrAgentRequired          = errors.New("agent is required")
	ErrSessionServiceRequired = errors.New("session service is required")
	ErrAppNameRequired        = errors.New("app name is required")
	ErrEmptyMessage           = errors.New("message has no text")
	ErrGuardrailTripwire      = errors.New("guardrail tripwire triggered")
)

// Config holds the dependencies of a Runner
type Config struct {
	AppName        string
	Agent          *agent.Agent
	SessionService session.Service
	Provider       model.Provider

	// Streaming emits one partial event per model chunk before the final event
	Streaming bool

	// Metrics is optional
	Metrics *metrics.Metrics

	Logger zerolog.Logger
}

// Runner executes turns of a single agent against a session service
type Runner struct {
	appName   string
	agent     *agent.Agent
	sessions  session.Service
	provider  model.Provider
	streaming bool
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

var _ interfaces.Runner = (*Runner)(nil)

func New(cfg Config) (*Runner, error) {
	switch {
	case strings.TrimSpace(cfg.AppName) == "":
		return nil, ErrAppNameRequired
	case cfg.Agent == nil:
		return nil, ErrAgentRequired
	case cfg.SessionService == nil:
		return nil, ErrSessionServiceRequired
	case cfg.Provider == nil:
		return nil, ErrModelProviderRequired
	}

	return &Runner{
		appName:   cfg.AppName,
		agent:     cfg.Agent,
		sessions:  cfg.SessionService,
		provider:  cfg.Provider,
		streaming: cfg.Streaming,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("app_name", cfg.AppName).Str("agent", cfg.Agent.GetName()).Logger(),
	}, nil
}

func (r *Runner) AppName() string {
	return r.appName
}

func (r *Runner) Agent() *agent.Agent {
	return r.agent
}

// turn carries the state of one Run call
type turn struct {
	key          session.Key
	invocationID string
	settings     model.Settings
	yield        func(*event.Event, error) bool

	// stopped is set when the consumer ended the iteration
	stopped bool
}

func (t *turn) emit(e *event.Event) bool {
	if !t.yield(e, nil) {
		t.stopped = true
	}
	return !t.stopped
}

// Run appends msg to the session, calls the model and yields the resulting events.
// Errors are yielded once, after which the sequence ends.
func (r *Runner) Run(ctx context.Context, userID, sessionID string, msg *event.Content) iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		t := &turn{
			key:          session.Key{AppName: r.appName, UserID: userID, SessionID: sessionID},
			invocationID: event.NewInvocationID(),
			settings:     r.settings(),
			yield:        yield,
		}

		span, ctx := tracing.StartSpan(ctx, tracing.SpanAgentRun, map[string]any{
			tracing.AttrAppName:      r.appName,
			tracing.AttrUserID:       userID,
			tracing.AttrSessionID:    sessionID,
			tracing.AttrInvocationID: t.invocationID,
			tracing.AttrAgentName:    r.agent.GetName(),
			tracing.AttrModel:        t.settings.Model,
			tracing.AttrStreaming:    r.streaming,
		})
		log := r.logger.With().Str("session_id", sessionID).Str("invocation_id", t.invocationID).Logger()
		start := time.Now()

		err := r.runTurn(ctx, t, msg)

		span.RecordError(err)
		span.End()
		r.metrics.RecordTurn(r.agent.GetName(), time.Since(start), err)

		switch {
		case err != nil:
			log.Error().Err(err).Dur("duration", time.Since(start)).Msg("agent run failed")
			yield(nil, err)
		case t.stopped:
			log.Debug().Msg("agent run stopped by consumer")
		default:
			log.Debug().Dur("duration", time.Since(start)).Msg("agent run completed")
		}
	}
}

func (r *Runner) settings() model.Settings {
	settings := model.DefaultSettings().Merge(r.agent.ModelSettings)
	if r.agent.ModelSettings.Model == "" {
		settings.Model = r.agent.Model
	}
	return settings
}

func (r *Runner) runTurn(ctx context.Context, t *turn, msg *event.Content) error {
	if msg.IsEmpty() {
		return ErrEmptyMessage
	}

	sess, err := r.sessions.Get(ctx, t.key.AppName, t.key.UserID, t.key.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	// Rejected input never reaches the session history
	tripped, err := guardrail.CheckInput(ctx, r.agent.InputGuardrails, msg.Text())
	if err != nil {
		return err
	}
	if tripped != nil {
		r.metrics.RecordGuardrailTrip(tripped.Guardrail)
		return fmt.Errorf("%w: %s: %s", ErrGuardrailTripwire, tripped.Guardrail, tripped.Message)
	}

	userEvent := event.New(t.invocationID, event.AuthorUser)
	userEvent.Content = msg.Clone()
	userEvent.Content.Role = event.RoleUser
	if err := r.sessions.AppendEvent(ctx, t.key, userEvent); err != nil {
		return fmt.Errorf("failed to append user event: %w", err)
	}

	hooks := r.agent.GetHooks()
	if err := hooks.OnStart(ctx, r.agent, msg); err != nil {
		return fmt.Errorf("on start hook: %w", err)
	}

	messages, err := r.buildMessages(ctx, append(sess.Events, userEvent))
	if err != nil {
		return err
	}

	final, err := r.callModel(ctx, t, messages)
	if err != nil || t.stopped {
		return err
	}

	output, tripped, err := guardrail.CheckOutput(ctx, r.agent.OutputGuardrails, final.Text())
	if err != nil {
		return err
	}
	if tripped != nil {
		r.metrics.RecordGuardrailTrip(tripped.Guardrail)
		return fmt.Errorf("%w: %s: %s", ErrGuardrailTripwire, tripped.Guardrail, tripped.Message)
	}
	final.Content = event.NewTextContent(event.RoleModel, output)

	if err := r.sessions.AppendEvent(ctx, t.key, final); err != nil {
		return fmt.Errorf("failed to append agent event: %w", err)
	}
	if err := hooks.OnEvent(ctx, r.agent, final); err != nil {
		return fmt.Errorf("on event hook: %w", err)
	}
	if err := hooks.OnEnd(ctx, r.agent, final); err != nil {
		return fmt.Errorf("on end hook: %w", err)
	}

	r.metrics.RecordEvent(r.agent.GetName(), false)
	t.emit(final)
	return nil
}

// buildMessages turns the instruction and the session history into model messages
func (r *Runner) buildMessages(ctx context.Context, history []*event.Event) ([]model.Message, error) {
	messages := make([]model.Message, 0, len(history)+1)

	prompt, err := r.agent.GetSystemPrompt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get system prompt: %w", err)
	}
	if prompt != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: prompt})
	}

	for _, e := range history {
		if e.Partial || e.Content.IsEmpty() {
			continue
		}
		role := model.RoleAssistant
		if e.Author == event.AuthorUser {
			role = model.RoleUser
		}
		messages = append(messages, model.Message{Role: role, Content: e.Text()})
	}
	return messages, nil
}

// callModel runs the llm_call span and returns the aggregated final event.
// In streaming mode partial events are yielded as chunks arrive.
func (r *Runner) callModel(ctx context.Context, t *turn, messages []model.Message) (*event.Event, error) {
	span, ctx := tracing.StartSpan(ctx, tracing.SpanLLMCall, map[string]any{
		tracing.AttrModel:     t.settings.Model,
		tracing.AttrStreaming: r.streaming,
		"messages":            len(messages),
	})
	start := time.Now()

	var final *event.Event
	var err error
	if r.streaming {
		final, err = r.stream(ctx, t, messages)
	} else {
		final, err = r.complete(ctx, t, messages)
	}

	r.metrics.RecordModelCall(t.settings.Model, time.Since(start), err)
	span.RecordError(err)
	if final != nil {
		span.SetAttributes(map[string]any{
			tracing.AttrFinishReason: final.FinishReason,
			tracing.AttrTotalTokens:  final.Usage.TotalTokens,
		})
		r.metrics.RecordTokens(t.settings.Model, final.Usage.PromptTokens, final.Usage.CompletionTokens)
	}
	span.End()

	return final, err
}

func (r *Runner) newAgentEvent(t *turn, text string) *event.Event {
	e := event.New(t.invocationID, r.agent.GetName())
	e.Content = event.NewTextContent(event.RoleModel, text)
	return e
}

func (r *Runner) complete(ctx context.Context, t *turn, messages []model.Message) (*event.Event, error) {
	resp, err := r.provider.CreateChatCompletion(ctx, messages, t.settings)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	final := r.newAgentEvent(t, resp.Message.Content)
	final.TurnComplete = true
	final.FinishReason = resp.FinishReason
	final.Usage = event.Usage(resp.Usage)
	return final, nil
}

func (r *Runner) stream(ctx context.Context, t *turn, messages []model.Message) (*event.Event, error) {
	stream, err := r.provider.CreateChatCompletionStream(ctx, messages, t.settings)
	if err != nil {
		return nil, fmt.Errorf("model stream failed: %w", err)
	}
	defer stream.Close()

	var text strings.Builder
	var finishReason string
	var usage event.Usage
	hooks := r.agent.GetHooks()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("model stream failed: %w", err)
		}

		if chunk.FinishReason != "" {
			finishReason = chunk.FinishReason
		}
		if chunk.Usage != nil {
			usage = event.Usage(*chunk.Usage)
		}
		if chunk.Delta.Content == "" {
			continue
		}

		text.WriteString(chunk.Delta.Content)
		partial := r.newAgentEvent(t, chunk.Delta.Content)
		partial.Partial = true
		if err := hooks.OnEvent(ctx, r.agent, partial); err != nil {
			return nil, fmt.Errorf("on event hook: %w", err)
		}
		r.metrics.RecordEvent(r.agent.GetName(), true)
		if !t.emit(partial) {
			return nil, nil
		}
	}

	final := r.newAgentEvent(t, text.String())
	final.TurnComplete = true
	final.FinishReason = finishReason
	final.Usage = usage
	return final, nil
}
