// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package event

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextContent(t *testing.T) {
	c := NewTextContent(RoleUser, "Write a haiku about APIs.")

	assert.Equal(t, RoleUser, c.Role)
	assert.Len(t, c.Parts, 1)
	assert.Equal(t, "Write a haiku about APIs.", c.Text())
	assert.False(t, c.IsEmpty())
}

func TestContentText(t *testing.T) {
	var nilContent *Content
	assert.Equal(t, "", nilContent.Text())
	assert.True(t, nilContent.IsEmpty())

	c := &Content{Role: RoleModel, Parts: []Part{{Text: "Hello, "}, {Text: "world"}}}
	assert.Equal(t, "Hello, world", c.Text())

	blank := NewTextContent(RoleModel, "  \n\t")
	assert.True(t, blank.IsEmpty(), "whitespace-only content should be empty")
}

func TestContentClone(t *testing.T) {
	original := NewTextContent(RoleModel, "original")
	cloned := original.Clone()

	cloned.Parts[0].Text = "changed"
	assert.Equal(t, "original", original.Text(), "clone must not share parts")
}

func TestIsFinalResponse(t *testing.T) {
	final := New("e-1", "assistant_agent")
	final.Content = NewTextContent(RoleModel, "done")
	assert.True(t, final.IsFinalResponse())

	partial := New("e-1", "assistant_agent")
	partial.Partial = true
	assert.False(t, partial.IsFinalResponse(), "partial events are never final")

	user := New("e-1", AuthorUser)
	assert.False(t, user.IsFinalResponse(), "user input is never a final response")

	var nilEvent *Event
	assert.False(t, nilEvent.IsFinalResponse())
}

func TestNewAssignsIdentifiers(t *testing.T) {
	a := New("e-1", "agent")
	b := New("e-1", "agent")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
	assert.True(t, strings.HasPrefix(NewInvocationID(), "e-"))
}
