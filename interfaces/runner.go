// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package interfaces

import (
	"context"
	"iter"

	"github.com/ryichk/first-agent-go/event"
	"github.com/ryichk/first-agent-go/session"
)

// Runner executes one agent turn against a stored session
type Runner interface {
	// AppName returns the application the runner serves
	AppName() string

	// Run submits msg to the session and streams the events produced by the agent.
	// Stopping the iteration early cancels the turn.
	Run(ctx context.Context, userID, sessionID string, msg *event.Content) iter.Seq2[*event.Event, error]
}

// SessionCreator creates conversation sessions
type SessionCreator interface {
	Create(ctx context.Context, appName, userID, sessionID string) (*session.Session, error)
}

var _ SessionCreator = (*session.InMemoryService)(nil)
