// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package guardrail

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// minConfidence is the detection confidence below which input is let through
const minConfidence = 0.5

var languageCodes = map[string]whatlanggo.Lang{
	"en": whatlanggo.Eng,
	"es": whatlanggo.Spa,
	"fr": whatlanggo.Fra,
	"de": whatlanggo.Deu,
	"it": whatlanggo.Ita,
	"pt": whatlanggo.Por,
	"ja": whatlanggo.Jpn,
}

// LanguageGuardrail rejects input confidently detected as a language outside the allowed set
type LanguageGuardrail struct {
	allowed map[whatlanggo.Lang]bool
	codes   []string
}

// NewLanguageGuardrail creates a guardrail allowing the given ISO 639-1 codes.
// Unknown codes are reported as an error.
func NewLanguageGuardrail(codes ...string) (*LanguageGuardrail, error) {
	g := &LanguageGuardrail{allowed: make(map[whatlanggo.Lang]bool)}
	for _, code := range codes {
		lang, ok := languageCodes[strings.ToLower(code)]
		if !ok {
			return nil, fmt.Errorf("unsupported language code %q", code)
		}
		g.allowed[lang] = true
		g.codes = append(g.codes, strings.ToLower(code))
	}
	return g, nil
}

func (g *LanguageGuardrail) Name() string {
	return "language"
}

func (g *LanguageGuardrail) Description() string {
	return "Allows input in: " + strings.Join(g.codes, ", ")
}

func (g *LanguageGuardrail) Check(ctx context.Context, input string) (InputGuardrailResult, error) {
	if len(g.allowed) == 0 || strings.TrimSpace(input) == "" {
		return InputGuardrailResult{Allowed: true}, nil
	}

	info := whatlanggo.Detect(input)
	if info.Confidence <= minConfidence || g.allowed[info.Lang] {
		return InputGuardrailResult{Allowed: true}, nil
	}

	return InputGuardrailResult{
		Message: fmt.Sprintf("input language %s is not allowed", info.Lang.String()),
	}, nil
}
