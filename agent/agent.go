// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package agent

import (
	"context"
	"fmt"

	"github.com/ryichk/first-agent-go/guardrail"
	"github.com/ryichk/first-agent-go/model"
)

// InstructionsFunc is a function type that generates dynamic instructions
type InstructionsFunc func(ctx context.Context) (string, error)

// An Agent binds a model reference to a name, a description and an instruction.
//
// The Agent is configuration only: it is handed to a runner which does the
// actual work. The model reference is not validated here; a name the model
// provider does not know fails when the runner submits a turn.
type Agent struct {
	// Name identifies the agent. It is used as the author of the events the agent produces.
	Name string

	// Model names the hosted model, e.g. "gemini-2.5-flash".
	Model string

	// Description is a human-readable description of what the agent does. Informational only.
	Description string

	// Instruction is the system prompt sent with every turn.
	Instruction string

	// Configures model-specific tuning parameters (e.g. Temperature, TopP).
	ModelSettings model.Settings

	// Checks run on the user input before the model is called.
	InputGuardrails []guardrail.InputGuardrail

	// Checks run on the final output of the agent.
	OutputGuardrails []guardrail.OutputGuardrail

	// Receives callbacks on lifecycle events of this agent.
	Hooks Hooks

	dynamicInstruction InstructionsFunc
}

// Option configures an Agent
type Option func(*Agent)

// New creates an agent with the given name and options
func New(name string, opts ...Option) *Agent {
	a := &Agent{
		Name:  name,
		Hooks: &BaseAgentHooks{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithName(name string) Option {
	return func(a *Agent) {
		a.Name = name
	}
}

func WithModel(model string) Option {
	return func(a *Agent) {
		a.Model = model
	}
}

func WithDescription(description string) Option {
	return func(a *Agent) {
		a.Description = description
	}
}

func WithInstruction(instruction string) Option {
	return func(a *Agent) {
		a.Instruction = instruction
	}
}

func WithModelSettings(settings model.Settings) Option {
	return func(a *Agent) {
		a.ModelSettings = settings
	}
}

func WithInputGuardrails(guardrails ...guardrail.InputGuardrail) Option {
	return func(a *Agent) {
		a.InputGuardrails = append([]guardrail.InputGuardrail(nil), guardrails...)
	}
}

func WithOutputGuardrails(guardrails ...guardrail.OutputGuardrail) Option {
	return func(a *Agent) {
		a.OutputGuardrails = append([]guardrail.OutputGuardrail(nil), guardrails...)
	}
}

// WithHooks sets the hooks of the agent. A nil value installs no-op hooks.
func WithHooks(hooks Hooks) Option {
	return func(a *Agent) {
		if hooks == nil {
			hooks = &BaseAgentHooks{}
		}
		a.Hooks = hooks
	}
}

// WithDynamicInstruction makes the system prompt computed per turn.
// It takes precedence over Instruction.
func WithDynamicInstruction(fn InstructionsFunc) Option {
	return func(a *Agent) {
		a.dynamicInstruction = fn
	}
}

// GetName returns the agent name
func (a *Agent) GetName() string {
	return a.Name
}

// GetDescription returns the agent description
func (a *Agent) GetDescription() string {
	if a.Description != "" {
		return a.Description
	}
	return fmt.Sprintf("Agent %s", a.Name)
}

// GetSystemPrompt returns the system prompt for the current turn
func (a *Agent) GetSystemPrompt(ctx context.Context) (string, error) {
	if a.dynamicInstruction != nil {
		return a.dynamicInstruction(ctx)
	}
	return a.Instruction, nil
}

// GetHooks returns the agent hooks, never nil
func (a *Agent) GetHooks() Hooks {
	if a.Hooks == nil {
		return &BaseAgentHooks{}
	}
	return a.Hooks
}
