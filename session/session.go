// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

// Package session stores conversation history keyed by application, user and
// session identifiers.
package session

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/ryichk/first-agent-go/event"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidKey      = errors.New("app name and user id are required")
)

// Key identifies a session
type Key struct {
	AppName   string
	UserID    string
	SessionID string
}

// Session is a conversation-history container
type Session struct {
	AppName string
	UserID  string
	ID      string

	// Events are the non-partial events of the session in chronological order
	Events []*event.Event

	State map[string]any

	LastUpdateTime time.Time
}

// Key returns the key of the session
func (s *Session) Key() Key {
	return Key{AppName: s.AppName, UserID: s.UserID, SessionID: s.ID}
}

func (s *Session) clone() *Session {
	events := make([]*event.Event, len(s.Events))
	for i, e := range s.Events {
		events[i] = e.Clone()
	}
	return &Session{
		AppName:        s.AppName,
		UserID:         s.UserID,
		ID:             s.ID,
		Events:         events,
		State:          maps.Clone(s.State),
		LastUpdateTime: s.LastUpdateTime,
	}
}

// Service manages sessions. Implementations must be safe for concurrent use.
type Service interface {
	// Create creates a session. An empty sessionID is replaced by a generated one.
	Create(ctx context.Context, appName, userID, sessionID string) (*Session, error)

	// Get returns a copy of the session
	Get(ctx context.Context, appName, userID, sessionID string) (*Session, error)

	// List returns copies of all sessions of a user
	List(ctx context.Context, appName, userID string) ([]*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, appName, userID, sessionID string) error

	// AppendEvent records an event in the session. Partial events are ignored.
	AppendEvent(ctx context.Context, key Key, e *event.Event) error
}
