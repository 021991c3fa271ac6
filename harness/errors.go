// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package harness

import (
	"errors"
	"fmt"
)

// ErrNoFinalResponse is returned in strict mode when the event stream ends
// without a final event carrying text
var ErrNoFinalResponse = errors.New("agent produced no final response")

// SessionCreationError is returned when the session store rejects the session
type SessionCreationError struct {
	AppName   string
	UserID    string
	SessionID string
	Err       error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("failed to create session %q for user %q in app %q: %v", e.SessionID, e.UserID, e.AppName, e.Err)
}

func (e *SessionCreationError) Unwrap() error {
	return e.Err
}

// RuntimeInvocationError is returned when the runner fails while producing events
type RuntimeInvocationError struct {
	Err error
}

func (e *RuntimeInvocationError) Error() string {
	return fmt.Sprintf("agent invocation failed: %v", e.Err)
}

func (e *RuntimeInvocationError) Unwrap() error {
	return e.Err
}
