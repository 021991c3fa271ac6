// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/ryichk/first-agent-go/model"
)

// ErrNoScriptedReply is returned once a FakeProvider has used up its replies
var ErrNoScriptedReply = errors.New("fake provider: no scripted reply left")

// FakeProvider is a model.Provider that answers with scripted replies in order.
// Streams split each reply into word chunks followed by a chunk carrying the
// finish reason and usage.
type FakeProvider struct {
	// Err is returned by every call instead of a reply
	Err error

	// RecvErr is returned by Recv after the reply chunks instead of io.EOF
	RecvErr error

	mu          sync.Mutex
	replies     []string
	calls       int
	streamCalls int
	closed      int
	messages    [][]model.Message
	settings    []model.Settings
}

func NewFakeProvider(replies ...string) *FakeProvider {
	return &FakeProvider{replies: replies}
}

// AddReplies appends scripted replies
func (p *FakeProvider) AddReplies(replies ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, replies...)
}

func (p *FakeProvider) next(messages []model.Message, settings model.Settings) (string, error) {
	p.messages = append(p.messages, append([]model.Message(nil), messages...))
	p.settings = append(p.settings, settings)

	if p.Err != nil {
		return "", p.Err
	}
	if len(p.replies) == 0 {
		return "", ErrNoScriptedReply
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func usageFor(messages []model.Message, reply string) model.Usage {
	prompt := 0
	for _, m := range messages {
		prompt += len(strings.Fields(m.Content))
	}
	completion := len(strings.Fields(reply))
	return model.Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
}

func (p *FakeProvider) CreateChatCompletion(ctx context.Context, messages []model.Message, settings model.Settings) (*model.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	reply, err := p.next(messages, settings)
	if err != nil {
		return nil, err
	}
	return &model.Response{
		Message:      model.Message{Role: model.RoleAssistant, Content: reply},
		FinishReason: "stop",
		Usage:        usageFor(messages, reply),
	}, nil
}

func (p *FakeProvider) CreateChatCompletionStream(ctx context.Context, messages []model.Message, settings model.Settings) (model.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.streamCalls++

	reply, err := p.next(messages, settings)
	if err != nil {
		return nil, err
	}

	var chunks []*model.StreamChunk
	for _, word := range strings.SplitAfter(reply, " ") {
		if word == "" {
			continue
		}
		chunks = append(chunks, &model.StreamChunk{Delta: model.Message{Role: model.RoleAssistant, Content: word}})
	}
	if p.RecvErr == nil {
		usage := usageFor(messages, reply)
		chunks = append(chunks, &model.StreamChunk{FinishReason: "stop", Usage: &usage})
	}

	return &fakeStream{provider: p, chunks: chunks, err: p.RecvErr}, nil
}

// Calls returns the number of non-streaming calls
func (p *FakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// StreamCalls returns the number of streaming calls
func (p *FakeProvider) StreamCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamCalls
}

// ClosedStreams returns how many streams were closed
func (p *FakeProvider) ClosedStreams() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Messages returns the messages sent with the i-th call of either kind
func (p *FakeProvider) Messages(i int) []model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.messages) {
		return nil
	}
	return p.messages[i]
}

// LastSettings returns the settings of the most recent call
func (p *FakeProvider) LastSettings() model.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.settings) == 0 {
		return model.Settings{}
	}
	return p.settings[len(p.settings)-1]
}

type fakeStream struct {
	provider *FakeProvider
	chunks   []*model.StreamChunk
	err      error
	closed   bool
}

func (s *fakeStream) Recv() (*model.StreamChunk, error) {
	if s.closed {
		return nil, io.ErrClosedPipe
	}
	if len(s.chunks) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func (s *fakeStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.provider.mu.Lock()
	s.provider.closed++
	s.provider.mu.Unlock()
	return nil
}
