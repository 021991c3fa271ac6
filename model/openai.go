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

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIConfig represents OpenAI provider configuration
type OpenAIConfig struct {
	// APIKey is the OpenAI API key
	APIKey string

	// BaseURL is the custom base URL (optional). Any OpenAI compatible endpoint works.
	BaseURL string

	// Organization is the OpenAI Organization (optional)
	Organization string
}

type OpenAIProvider struct {
	config OpenAIConfig
	client *openai.Client
}

func NewOpenAIProvider(config OpenAIConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		config.APIKey = os.Getenv("OPENAI_API_KEY")
		if config.APIKey == "" {
			return nil, errors.New("OpenAI API key is required")
		}
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Organization != "" {
		clientConfig.OrgID = config.Organization
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// NewDefaultOpenAIProvider creates an OpenAI provider using API key from environment variables
func NewDefaultOpenAIProvider() (*OpenAIProvider, error) {
	return NewOpenAIProvider(OpenAIConfig{})
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, messages []Message, settings Settings) (*Response, error) {
	request := p.buildRequest(messages, settings)

	result, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	choice := result.Choices[0]

	return &Response{
		Message: Message{
			Role:    RoleAssistant,
			Content: choice.Message.Content,
		},
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

// CreateChatCompletionStream creates a streaming chat completion
func (p *OpenAIProvider) CreateChatCompletionStream(ctx context.Context, messages []Message, settings Settings) (Stream, error) {
	request := p.buildRequest(messages, settings)
	request.Stream = true
	request.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := p.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API stream call failed: %w", err)
	}

	return &OpenAIStream{
		stream: stream,
	}, nil
}

func (p *OpenAIProvider) buildRequest(messages []Message, settings Settings) openai.ChatCompletionRequest {
	request := openai.ChatCompletionRequest{
		Model:       getModelName(settings),
		Messages:    convertToOpenAIMessages(messages),
		Temperature: float32(settings.Temperature),
		MaxTokens:   settings.MaxTokens,
		TopP:        float32(settings.TopP),
		Stop:        settings.StopSequences,
	}

	if settings.Custom["response_format"] == "json_object" {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return request
}

// OpenAIStream handles OpenAI streaming responses
type OpenAIStream struct {
	stream *openai.ChatCompletionStream
}

// Recv receives the next chunk from the stream
func (s *OpenAIStream) Recv() (*StreamChunk, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to receive from stream: %w", err)
	}

	chunk := &StreamChunk{
		Delta: Message{Role: RoleAssistant},
	}

	// The usage chunk requested through StreamOptions carries no choices
	if resp.Usage != nil {
		chunk.Usage = &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		chunk.Delta.Content = choice.Delta.Content
		chunk.FinishReason = string(choice.FinishReason)
	}

	return chunk, nil
}

func (s *OpenAIStream) Close() error {
	return s.stream.Close()
}

// convertToOpenAIMessages converts messages to OpenAI format
func convertToOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

func getModelName(settings Settings) string {
	if settings.Model != "" {
		return settings.Model
	}
	return defaultOpenAIModel
}
