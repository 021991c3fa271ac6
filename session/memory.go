// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ryichk/first-agent-go/event"
)

// InMemoryService keeps sessions in process memory. Nothing survives process exit.
type InMemoryService struct {
	mu       sync.RWMutex
	sessions map[Key]*Session
}

// NewInMemoryService creates an empty in-memory session service
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		sessions: make(map[Key]*Session),
	}
}

func (s *InMemoryService) Create(ctx context.Context, appName, userID, sessionID string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if appName == "" || userID == "" {
		return nil, ErrInvalidKey
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	key := Key{AppName: appName, UserID: userID, SessionID: sessionID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, sessionID)
	}

	created := &Session{
		AppName:        appName,
		UserID:         userID,
		ID:             sessionID,
		State:          make(map[string]any),
		LastUpdateTime: time.Now().UTC(),
	}
	s.sessions[key] = created

	return created.clone(), nil
}

func (s *InMemoryService) Get(ctx context.Context, appName, userID, sessionID string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[Key{AppName: appName, UserID: userID, SessionID: sessionID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return stored.clone(), nil
}

func (s *InMemoryService) List(ctx context.Context, appName, userID string) ([]*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Session
	for key, stored := range s.sessions {
		if key.AppName == appName && key.UserID == userID {
			result = append(result, stored.clone())
		}
	}
	slices.SortFunc(result, func(a, b *Session) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (s *InMemoryService) Delete(ctx context.Context, appName, userID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := Key{AppName: appName, UserID: userID, SessionID: sessionID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	delete(s.sessions, key)
	return nil
}

func (s *InMemoryService) AppendEvent(ctx context.Context, key Key, e *event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e == nil || e.Partial {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, key.SessionID)
	}
	stored.Events = append(stored.Events, e.Clone())
	stored.LastUpdateTime = e.Timestamp
	return nil
}
