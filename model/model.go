// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package model

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Settings represents model settings
type Settings struct {
	// Model is the name of the hosted model to call
	Model string

	// Temperature sets the generation temperature (0.0-2.0)
	Temperature float64

	// MaxTokens sets the maximum number of tokens to generate.
	// Zero leaves the limit to the provider.
	MaxTokens int

	// TopP sets the top P for generation (0.0-1.0)
	TopP float64

	// StopSequences sets sequences that stop generation
	StopSequences []string

	// Custom holds provider specific settings
	Custom map[string]any
}

// DefaultSettings returns default model settings
func DefaultSettings() Settings {
	return Settings{
		Temperature:   0.7,
		TopP:          1.0,
		StopSequences: []string{},
		Custom:        make(map[string]any),
	}
}

// Merge returns s with the non-zero values of other applied
func (s Settings) Merge(other Settings) Settings {
	if other.Model != "" {
		s.Model = other.Model
	}
	if other.Temperature != 0 {
		s.Temperature = other.Temperature
	}
	if other.MaxTokens != 0 {
		s.MaxTokens = other.MaxTokens
	}
	if other.TopP != 0 {
		s.TopP = other.TopP
	}
	if len(other.StopSequences) > 0 {
		s.StopSequences = other.StopSequences
	}
	if len(other.Custom) > 0 {
		custom := make(map[string]any, len(s.Custom)+len(other.Custom))
		for k, v := range s.Custom {
			custom[k] = v
		}
		for k, v := range other.Custom {
			custom[k] = v
		}
		s.Custom = custom
	}
	return s
}

// Message represents a chat message
type Message struct {
	// Role is the role of the message (system, user, assistant)
	Role    string
	Content string
}

// Provider is the interface for model providers
type Provider interface {
	CreateChatCompletion(ctx context.Context, messages []Message, settings Settings) (*Response, error)
	CreateChatCompletionStream(ctx context.Context, messages []Message, settings Settings) (Stream, error)
}

// Response represents a model response
type Response struct {
	Message      Message
	FinishReason string
	Usage        Usage
}

// Usage represents token usage
type Usage struct {
	// PromptTokens is the number of tokens in the prompt
	PromptTokens int

	// CompletionTokens is the number of tokens in the completion
	CompletionTokens int

	// TotalTokens is the total number of tokens
	TotalTokens int
}

// Stream is the interface for streaming responses.
// Recv returns io.EOF once the stream is exhausted.
type Stream interface {
	// Recv receives the next chunk from the stream
	Recv() (*StreamChunk, error)

	// Close closes the stream
	Close() error
}

type StreamChunk struct {
	Delta Message

	FinishReason string

	// Usage is only populated by providers that report it on the last chunk
	Usage *Usage
}

// splitSystem separates system messages from the conversation.
// Gemini and Anthropic take the system prompt out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if system != "" {
				system += "\n"
			}
			system += msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
