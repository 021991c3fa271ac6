// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryichk/first-agent-go/guardrail"
	"github.com/ryichk/first-agent-go/model"
)

func TestNew(t *testing.T) {
	a := New("assistant_agent",
		WithModel("gemini-2.5-flash"),
		WithDescription("A helpful and creative assistant for a wide range of tasks."),
		WithInstruction("You are a friendly and knowledgeable assistant named Alex."),
	)

	assert.Equal(t, "assistant_agent", a.Name)
	assert.Equal(t, "gemini-2.5-flash", a.Model)
	assert.Equal(t, "A helpful and creative assistant for a wide range of tasks.", a.Description)
	assert.Equal(t, "You are a friendly and knowledgeable assistant named Alex.", a.Instruction)
	assert.NotNil(t, a.Hooks, "Hooks should default to no-op hooks")
	assert.Empty(t, a.InputGuardrails)
	assert.Empty(t, a.OutputGuardrails)
}

func TestModelReferenceIsNotValidated(t *testing.T) {
	a := New("agent", WithModel("definitely-not-a-model"))
	assert.Equal(t, "definitely-not-a-model", a.Model)
}

func TestGetDescription(t *testing.T) {
	assert.Equal(t, "Agent plain", New("plain").GetDescription())
	assert.Equal(t, "Answers questions", New("described", WithDescription("Answers questions")).GetDescription())
}

func TestGetSystemPrompt(t *testing.T) {
	ctx := context.Background()

	static := New("static", WithInstruction("Static instruction"))
	prompt, err := static.GetSystemPrompt(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Static instruction", prompt)

	dynamic := New("dynamic",
		WithInstruction("ignored"),
		WithDynamicInstruction(func(ctx context.Context) (string, error) {
			return "Dynamic instruction", nil
		}),
	)
	prompt, err = dynamic.GetSystemPrompt(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Dynamic instruction", prompt)

	failing := New("failing", WithDynamicInstruction(func(ctx context.Context) (string, error) {
		return "", errors.New("instruction source unavailable")
	}))
	_, err = failing.GetSystemPrompt(ctx)
	assert.EqualError(t, err, "instruction source unavailable")
}

func TestOptions(t *testing.T) {
	input := guardrail.NewInputGuardrail("in", "input check", func(ctx context.Context, input string) (guardrail.InputGuardrailResult, error) {
		return guardrail.InputGuardrailResult{Allowed: true}, nil
	})
	output := guardrail.NewOutputGuardrail("out", "output check", func(ctx context.Context, output string) (guardrail.OutputGuardrailResult, error) {
		return guardrail.OutputGuardrailResult{Allowed: true}, nil
	})
	settings := model.Settings{Temperature: 0.1, MaxTokens: 64}

	a := New("configured",
		WithModelSettings(settings),
		WithInputGuardrails(input),
		WithOutputGuardrails(output),
		WithHooks(nil),
	)

	assert.Equal(t, settings, a.ModelSettings)
	assert.Len(t, a.InputGuardrails, 1)
	assert.Len(t, a.OutputGuardrails, 1)
	assert.IsType(t, &BaseAgentHooks{}, a.Hooks, "nil hooks should be replaced by no-op hooks")
}

func TestGetHooksNeverNil(t *testing.T) {
	a := &Agent{Name: "bare"}
	assert.NotNil(t, a.GetHooks())
}
