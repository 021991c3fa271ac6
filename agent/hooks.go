// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package agent

import (
	"context"

	"github.com/ryichk/first-agent-go/event"
)

// Hooks is the interface for agent lifecycle hooks
type Hooks interface {
	// OnStart is called when the agent starts a turn
	OnStart(ctx context.Context, agent *Agent, input *event.Content) error

	// OnEvent is called for every event the agent emits, partial ones included
	OnEvent(ctx context.Context, agent *Agent, e *event.Event) error

	// OnEnd is called once the final response of the turn is known
	OnEnd(ctx context.Context, agent *Agent, output *event.Event) error
}

// BaseAgentHooks provides a basic implementation of the Hooks interface
type BaseAgentHooks struct{}

func (h *BaseAgentHooks) OnStart(ctx context.Context, agent *Agent, input *event.Content) error {
	return nil
}

func (h *BaseAgentHooks) OnEvent(ctx context.Context, agent *Agent, e *event.Event) error {
	return nil
}

func (h *BaseAgentHooks) OnEnd(ctx context.Context, agent *Agent, output *event.Event) error {
	return nil
}
