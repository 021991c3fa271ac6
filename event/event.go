// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package event

import (
	"time"

	"github.com/google/uuid"
)

// AuthorUser is the author of events carrying user input
const AuthorUser = "user"

// Usage represents token usage reported for an event
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Event is one unit of a streamed agent response.
//
// A turn produces zero or more partial events (text deltas) followed by a
// single non-partial event holding the complete answer.
type Event struct {
	// ID uniquely identifies the event
	ID string

	// InvocationID groups all events produced by one Run call
	InvocationID string

	// Author is the agent name, or AuthorUser for user input
	Author string

	Content *Content

	// Partial is set on streaming deltas; the final event of a turn is never partial
	Partial bool

	// TurnComplete marks the last event of the turn
	TurnComplete bool

	// FinishReason is the reason reported by the model, if any
	FinishReason string

	Usage Usage

	Timestamp time.Time
}

// New creates an event with a fresh ID
func New(invocationID string, author string) *Event {
	return &Event{
		ID:           uuid.New().String(),
		InvocationID: invocationID,
		Author:       author,
		Timestamp:    time.Now().UTC(),
	}
}

// NewInvocationID returns an identifier for a new Run call
func NewInvocationID() string {
	return "e-" + uuid.New().String()
}

// IsFinalResponse reports whether the event is the agent's final answer for the turn
func (e *Event) IsFinalResponse() bool {
	if e == nil {
		return false
	}
	return !e.Partial && e.Author != AuthorUser
}

// Text returns the text carried by the event
func (e *Event) Text() string {
	if e == nil {
		return ""
	}
	return e.Content.Text()
}

// Clone returns a deep copy of the event
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	cloned := *e
	cloned.Content = e.Content.Clone()
	return &cloned
}
