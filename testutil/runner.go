// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package testutil

import (
	"context"
	"iter"
	"sync"

	"github.com/ryichk/first-agent-go/event"
	"github.com/ryichk/first-agent-go/session"
)

// FakeRunner yields scripted events and counts how far the consumer read
type FakeRunner struct {
	App    string
	Events []*event.Event

	// Err is yielded after Events when set
	Err error

	mu        sync.Mutex
	runs      int
	consumed  int
	userID    string
	sessionID string
	message   *event.Content
}

func (r *FakeRunner) AppName() string {
	return r.App
}

func (r *FakeRunner) Run(ctx context.Context, userID, sessionID string, msg *event.Content) iter.Seq2[*event.Event, error] {
	r.mu.Lock()
	r.runs++
	r.userID, r.sessionID, r.message = userID, sessionID, msg.Clone()
	r.mu.Unlock()

	return func(yield func(*event.Event, error) bool) {
		for _, e := range r.Events {
			r.mu.Lock()
			r.consumed++
			r.mu.Unlock()
			if !yield(e, nil) {
				return
			}
		}
		if r.Err != nil {
			yield(nil, r.Err)
		}
	}
}

// Runs returns the number of Run calls
func (r *FakeRunner) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Consumed returns how many scripted events were handed to the consumer
func (r *FakeRunner) Consumed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.consumed
}

// LastCall returns the arguments of the most recent Run call
func (r *FakeRunner) LastCall() (userID, sessionID string, msg *event.Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID, r.sessionID, r.message
}

// TextEvent builds an event authored by author carrying text
func TextEvent(author, text string, partial bool) *event.Event {
	e := event.New("e-test", author)
	role := event.RoleModel
	if author == event.AuthorUser {
		role = event.RoleUser
	}
	e.Content = event.NewTextContent(role, text)
	e.Partial = partial
	return e
}

// FakeSessionCreator counts Create calls. It delegates to Delegate when set
// and otherwise returns an empty session, or Err.
type FakeSessionCreator struct {
	Delegate interface {
		Create(ctx context.Context, appName, userID, sessionID string) (*session.Session, error)
	}
	Err error

	mu   sync.Mutex
	keys []session.Key
}

func (c *FakeSessionCreator) Create(ctx context.Context, appName, userID, sessionID string) (*session.Session, error) {
	c.mu.Lock()
	c.keys = append(c.keys, session.Key{AppName: appName, UserID: userID, SessionID: sessionID})
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	if c.Delegate != nil {
		return c.Delegate.Create(ctx, appName, userID, sessionID)
	}
	return &session.Session{
		AppName: appName,
		UserID:  userID,
		ID:      sessionID,
		State:   map[string]any{},
	}, nil
}

// Calls returns the number of Create calls
func (c *FakeSessionCreator) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// Keys returns the keys passed to Create in call order
func (c *FakeSessionCreator) Keys() []session.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]session.Key(nil), c.keys...)
}
