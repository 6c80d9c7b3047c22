// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a testing implementation of Provider.
type MockProvider struct {
	Response string
	Err      error
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &ChatResponse{
		Content: m.Response,
		Usage: Usage{
			PromptTokens:     10,
			CompletionTokens: 10,
			TotalTokens:      20,
		},
	}, nil
}

// FailingMockProvider always fails.
type FailingMockProvider struct {
	Err error
}

func (f *FailingMockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if f.Err == nil {
		return nil, fmt.Errorf("mock error")
	}
	return nil, f.Err
}

// RecordingProvider returns Response and keeps every request it received.
// Safe for concurrent use.
type RecordingProvider struct {
	Response string
	Err      error

	mu       sync.Mutex
	requests []ChatRequest
}

func (r *RecordingProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return &ChatResponse{Content: r.Response}, nil
}

// Requests returns a copy of the recorded requests.
func (r *RecordingProvider) Requests() []ChatRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChatRequest(nil), r.requests...)
}
