// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package model

import (
	"context"
	"strings"
)

// Family identifies the API a model reference is served by
type Family string

const (
	FamilyOpenAI    Family = "openai"
	FamilyGemini    Family = "gemini"
	FamilyAnthropic Family = "anthropic"
)

// ProviderConfig carries the credentials of every supported provider
type ProviderConfig struct {
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig
}

// FamilyOf maps a model reference to the provider family serving it.
// Unrecognised names go to the OpenAI compatible provider so that the remote
// endpoint, not this package, decides whether the model exists.
func FamilyOf(modelName string) Family {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	switch {
	case strings.HasPrefix(name, "gemini"), strings.HasPrefix(name, "gemma"):
		return FamilyGemini
	case strings.HasPrefix(name, "claude"):
		return FamilyAnthropic
	default:
		return FamilyOpenAI
	}
}

// NewProvider creates the provider serving modelName
func NewProvider(ctx context.Context, config ProviderConfig, modelName string) (Provider, error) {
	switch FamilyOf(modelName) {
	case FamilyGemini:
		return NewGeminiProvider(ctx, config.Gemini)
	case FamilyAnthropic:
		return NewAnthropicProvider(config.Anthropic)
	default:
		return NewOpenAIProvider(config.OpenAI)
	}
}
