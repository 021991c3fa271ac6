// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package event

import "strings"

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is a single unit of content. Only text parts are supported.
type Part struct {
	Text string
}

// Content is a message exchanged with an agent: a role and one or more parts.
type Content struct {
	// Role is the producer of the content, either RoleUser or RoleModel
	Role string

	Parts []Part
}

// NewTextContent creates a single-part content holding text
func NewTextContent(role string, text string) *Content {
	return &Content{
		Role:  role,
		Parts: []Part{{Text: text}},
	}
}

// Text concatenates the text of all parts
func (c *Content) Text() string {
	if c == nil {
		return ""
	}
	if len(c.Parts) == 1 {
		return c.Parts[0].Text
	}

	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// IsEmpty reports whether the content carries no non-whitespace text
func (c *Content) IsEmpty() bool {
	return strings.TrimSpace(c.Text()) == ""
}

// Clone returns a deep copy of the content
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	parts := make([]Part, len(c.Parts))
	copy(parts, c.Parts)
	return &Content{Role: c.Role, Parts: parts}
}
