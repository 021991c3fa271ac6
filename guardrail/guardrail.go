// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package guardrail

import (
	"context"
	"fmt"
	"unicode/utf8"
)

type InputGuardrailResult struct {
	// Allowed indicates whether the input is allowed
	Allowed bool

	// Message is the message when the guardrail is tripped
	Message string
}

type OutputGuardrailResult struct {
	// Allowed indicates whether the output is allowed
	Allowed bool

	// Message is the message when the guardrail is tripped
	Message string

	// ModifiedOutput replaces the output when non-empty
	ModifiedOutput string
}

type InputGuardrail interface {
	Name() string
	Description() string
	Check(ctx context.Context, input string) (InputGuardrailResult, error)
}

type OutputGuardrail interface {
	Name() string
	Description() string
	Check(ctx context.Context, output string) (OutputGuardrailResult, error)
}

// InputCheckFunc checks user input
type InputCheckFunc func(ctx context.Context, input string) (InputGuardrailResult, error)

// OutputCheckFunc checks agent output
type OutputCheckFunc func(ctx context.Context, output string) (OutputGuardrailResult, error)

type funcInputGuardrail struct {
	name        string
	description string
	check       InputCheckFunc
}

func (g *funcInputGuardrail) Name() string        { return g.name }
func (g *funcInputGuardrail) Description() string { return g.description }

func (g *funcInputGuardrail) Check(ctx context.Context, input string) (InputGuardrailResult, error) {
	return g.check(ctx, input)
}

type funcOutputGuardrail struct {
	name        string
	description string
	check       OutputCheckFunc
}

func (g *funcOutputGuardrail) Name() string        { return g.name }
func (g *funcOutputGuardrail) Description() string { return g.description }

func (g *funcOutputGuardrail) Check(ctx context.Context, output string) (OutputGuardrailResult, error) {
	return g.check(ctx, output)
}

func NewInputGuardrail(name string, description string, check InputCheckFunc) InputGuardrail {
	return &funcInputGuardrail{name: name, description: description, check: check}
}

func NewOutputGuardrail(name string, description string, check OutputCheckFunc) OutputGuardrail {
	return &funcOutputGuardrail{name: name, description: description, check: check}
}

// NewMaxLengthGuardrail rejects input longer than maxRunes characters
func NewMaxLengthGuardrail(maxRunes int) InputGuardrail {
	return NewInputGuardrail("max_length", fmt.Sprintf("Rejects input longer than %d characters", maxRunes),
		func(ctx context.Context, input string) (InputGuardrailResult, error) {
			if n := utf8.RuneCountInString(input); n > maxRunes {
				return InputGuardrailResult{
					Message: fmt.Sprintf("input is %d characters long, limit is %d", n, maxRunes),
				}, nil
			}
			return InputGuardrailResult{Allowed: true}, nil
		})
}

// Tripped describes the guardrail that rejected a check
type Tripped struct {
	Guardrail string
	Message   string
}

// CheckInput runs the guardrails in order and stops at the first rejection.
// A nil *Tripped means the input was allowed.
func CheckInput(ctx context.Context, guardrails []InputGuardrail, input string) (*Tripped, error) {
	for _, g := range guardrails {
		result, err := g.Check(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("input guardrail %s: %w", g.Name(), err)
		}
		if !result.Allowed {
			return &Tripped{Guardrail: g.Name(), Message: result.Message}, nil
		}
	}
	return nil, nil
}

// CheckOutput runs the guardrails in order, feeding each the output left by the previous one.
func CheckOutput(ctx context.Context, guardrails []OutputGuardrail, output string) (string, *Tripped, error) {
	current := output
	for _, g := range guardrails {
		result, err := g.Check(ctx, current)
		if err != nil {
			return "", nil, fmt.Errorf("output guardrail %s: %w", g.Name(), err)
		}
		if !result.Allowed {
			return "", &Tripped{Guardrail: g.Name(), Message: result.Message}, nil
		}
		if result.ModifiedOutput != "" {
			current = result.ModifiedOutput
		}
	}
	return current, nil, nil
}
