// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-5"

	// The Messages API requires an explicit output limit
	defaultAnthropicMaxTokens = 1024
)

// AnthropicConfig represents Anthropic provider configuration
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. Falls back to ANTHROPIC_API_KEY.
	APIKey string

	// BaseURL overrides the Anthropic API endpoint (optional)
	BaseURL string
}

// AnthropicProvider calls Claude models through the Messages API
type AnthropicProvider struct {
	client anthropic.Client
}

func NewAnthropicProvider(config AnthropicConfig) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		config.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if config.APIKey == "" {
			return nil, errors.New("Anthropic API key is required")
		}
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
	}, nil
}

func (p *AnthropicProvider) CreateChatCompletion(ctx context.Context, messages []Message, settings Settings) (*Response, error) {
	response, err := p.client.Messages.New(ctx, buildAnthropicParams(messages, settings))
	if err != nil {
		return nil, fmt.Errorf("Anthropic API call failed: %w", err)
	}

	content := ""
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += b.Text
		}
	}

	return &Response{
		Message: Message{
			Role:    RoleAssistant,
			Content: content,
		},
		FinishReason: string(response.StopReason),
		Usage: Usage{
			PromptTokens:     int(response.Usage.InputTokens),
			CompletionTokens: int(response.Usage.OutputTokens),
			TotalTokens:      int(response.Usage.InputTokens + response.Usage.OutputTokens),
		},
	}, nil
}

func (p *AnthropicProvider) CreateChatCompletionStream(ctx context.Context, messages []Message, settings Settings) (Stream, error) {
	stream := p.client.Messages.NewStreaming(ctx, buildAnthropicParams(messages, settings))
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("Anthropic API stream call failed: %w", err)
	}
	return &AnthropicStream{stream: stream}, nil
}

// AnthropicStream surfaces text deltas of a Messages stream as chunks
type AnthropicStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

func (s *AnthropicStream) Recv() (*StreamChunk, error) {
	for s.stream.Next() {
		ev := s.stream.Current()
		switch ev.Type {
		case "content_block_delta":
			if ev.Delta.Type == "text_delta" && ev.Delta.Text != "" {
				return &StreamChunk{
					Delta: Message{Role: RoleAssistant, Content: ev.Delta.Text},
				}, nil
			}
		case "message_delta":
			return &StreamChunk{
				Delta:        Message{Role: RoleAssistant},
				FinishReason: string(ev.Delta.StopReason),
				Usage: &Usage{
					CompletionTokens: int(ev.Usage.OutputTokens),
					TotalTokens:      int(ev.Usage.OutputTokens),
				},
			}, nil
		}
	}

	if err := s.stream.Err(); err != nil {
		return nil, fmt.Errorf("failed to receive from stream: %w", err)
	}
	return nil, io.EOF
}

func (s *AnthropicStream) Close() error {
	return s.stream.Close()
}

func buildAnthropicParams(messages []Message, settings Settings) anthropic.MessageNewParams {
	system, conversation := splitSystem(messages)

	anthropicMessages := make([]anthropic.MessageParam, 0, len(conversation))
	for _, msg := range conversation {
		if msg.Role == RoleAssistant {
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
			continue
		}
		anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(
			anthropic.NewTextBlock(msg.Content),
		))
	}

	modelName := settings.Model
	if modelName == "" {
		modelName = defaultAnthropicModel
	}

	params := anthropic.MessageNewParams{
		Model:         anthropic.Model(modelName),
		Messages:      anthropicMessages,
		MaxTokens:     int64(settings.MaxTokens),
		StopSequences: settings.StopSequences,
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = defaultAnthropicMaxTokens
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if settings.Temperature > 0 {
		params.Temperature = anthropic.Float(settings.Temperature)
	}

	return params
}
