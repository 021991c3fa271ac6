// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig represents Gemini provider configuration
type GeminiConfig struct {
	// APIKey is the Gemini API key. Falls back to GOOGLE_API_KEY, then GEMINI_API_KEY.
	APIKey string

	// BaseURL overrides the Gemini API endpoint (optional)
	BaseURL string
}

// GeminiProvider calls Google's Gemini models through the genai client
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, config GeminiConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		config.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if config.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) CreateChatCompletion(ctx context.Context, messages []Message, settings Settings) (*Response, error) {
	contents, config := buildGeminiRequest(messages, settings)

	result, err := p.client.Models.GenerateContent(ctx, geminiModelName(settings), contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, errors.New("no response from Gemini")
	}

	return &Response{
		Message: Message{
			Role:    RoleAssistant,
			Content: result.Text(),
		},
		FinishReason: string(result.Candidates[0].FinishReason),
		Usage:        geminiUsage(result.UsageMetadata),
	}, nil
}

func (p *GeminiProvider) CreateChatCompletionStream(ctx context.Context, messages []Message, settings Settings) (Stream, error) {
	contents, config := buildGeminiRequest(messages, settings)

	seq := p.client.Models.GenerateContentStream(ctx, geminiModelName(settings), contents, config)
	return newGeminiStream(seq), nil
}

// GeminiStream adapts the genai response iterator to Stream
type GeminiStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func newGeminiStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) *GeminiStream {
	next, stop := iter.Pull2(seq)
	return &GeminiStream{next: next, stop: stop}
}

func (s *GeminiStream) Recv() (*StreamChunk, error) {
	resp, err, ok := s.next()
	if !ok {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to receive from stream: %w", err)
	}

	chunk := &StreamChunk{
		Delta: Message{
			Role:    RoleAssistant,
			Content: resp.Text(),
		},
	}
	if len(resp.Candidates) > 0 {
		chunk.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		usage := geminiUsage(resp.UsageMetadata)
		chunk.Usage = &usage
	}
	return chunk, nil
}

func (s *GeminiStream) Close() error {
	s.stop()
	return nil
}

func buildGeminiRequest(messages []Message, settings Settings) ([]*genai.Content, *genai.GenerateContentConfig) {
	system, conversation := splitSystem(messages)

	contents := make([]*genai.Content, 0, len(conversation))
	for _, msg := range conversation {
		role := string(genai.RoleUser)
		if msg.Role == RoleAssistant {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	config := &genai.GenerateContentConfig{
		StopSequences: settings.StopSequences,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if settings.Temperature != 0 {
		config.Temperature = genai.Ptr(float32(settings.Temperature))
	}
	if settings.TopP != 0 {
		config.TopP = genai.Ptr(float32(settings.TopP))
	}
	if settings.MaxTokens > 0 {
		config.MaxOutputTokens = int32(settings.MaxTokens)
	}

	return contents, config
}

func geminiUsage(metadata *genai.GenerateContentResponseUsageMetadata) Usage {
	if metadata == nil {
		return Usage{}
	}
	return Usage{
		PromptTokens:     int(metadata.PromptTokenCount),
		CompletionTokens: int(metadata.CandidatesTokenCount),
		TotalTokens:      int(metadata.TotalTokenCount),
	}
}

func geminiModelName(settings Settings) string {
	if settings.Model != "" {
		return settings.Model
	}
	return defaultGeminiModel
}
