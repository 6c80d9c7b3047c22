// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm defines the generation backend consumed by role agents and a
// few local implementations of it.
package llm

import (
	"context"
	"errors"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single unit of communication.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest encapsulates the input for the LLM.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

// ChatResponse encapsulates the output from the LLM.
type ChatResponse struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Usage tracks token consumption as reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider defines the interface for interacting with LLM backends.
type Provider interface {
	// Chat sends a chat request to the LLM and returns the response.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ErrEmptyResponse is returned by Generate when the backend produced no text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// NewPromptRequest builds the request used for single-shot generation: an
// optional system message followed by the prompt as the user message.
func NewPromptRequest(model, prompt, systemInstruction string) ChatRequest {
	messages := make([]Message, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemInstruction})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})
	return ChatRequest{Model: model, Messages: messages}
}

// Generate runs prompt against systemInstruction with a single Chat call and
// returns the generated text. Any provider failure, including an empty
// answer, is returned as an error.
func Generate(ctx context.Context, p Provider, model, prompt, systemInstruction string) (string, error) {
	resp, err := Complete(ctx, p, NewPromptRequest(model, prompt, systemInstruction))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Complete performs one Chat call and rejects responses without text.
func Complete(ctx context.Context, p Provider, req ChatRequest) (*ChatResponse, error) {
	resp, err := p.Chat(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Content == "" {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

// SplitMessages separates the system instruction from the conversational
// messages. Providers with a dedicated system field use it.
func SplitMessages(messages []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
