// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package testutil

import (
	"context"
	"sync"

	"github.com/ryichk/first-agent-go/agent"
	"github.com/ryichk/first-agent-go/event"
)

// RecordingHooks records every lifecycle callback it receives
type RecordingHooks struct {
	agent.BaseAgentHooks

	// StartErr is returned from OnStart when set
	StartErr error

	mu     sync.Mutex
	starts []string
	events []*event.Event
	ends   []*event.Event
}

func (h *RecordingHooks) OnStart(ctx context.Context, a *agent.Agent, input *event.Content) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, input.Text())
	return h.StartErr
}

func (h *RecordingHooks) OnEvent(ctx context.Context, a *agent.Agent, e *event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return nil
}

func (h *RecordingHooks) OnEnd(ctx context.Context, a *agent.Agent, output *event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, output)
	return nil
}

// Starts returns the user inputs passed to OnStart
func (h *RecordingHooks) Starts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.starts...)
}

// Events returns the events passed to OnEvent
func (h *RecordingHooks) Events() []*event.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*event.Event(nil), h.events...)
}

// Ends returns the events passed to OnEnd
func (h *RecordingHooks) Ends() []*event.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*event.Event(nil), h.ends...)
}
