// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package gemini provides a Google Gemini API provider for role agents.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/orquestrador/roleagents/pkg/llm"
	"google.golang.org/genai"
)

// DefaultModel is the model used when neither the provider nor the request names one.
const DefaultModel = "gemini-2.5-flash"

// Provider implements llm.Provider for Google Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// Option configures the Provider.
type Option func(*Provider)

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// NewWithAPIKey creates a new Gemini provider with an explicit API key.
func NewWithAPIKey(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	p := &Provider{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Model returns the default model name.
func (p *Provider) Model() string { return p.model }

// Chat implements llm.Provider.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	contents, config := buildRequest(req)

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	return convertResponse(resp), nil
}

// Close is a no-op as the Gemini client doesn't require explicit closing.
func (p *Provider) Close() error {
	return nil
}

func buildRequest(req llm.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents, systemInstruction := convertMessages(req.Messages)

	config := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	return contents, config
}

// convertMessages converts llm messages to Gemini format.
func convertMessages(messages []llm.Message) ([]*genai.Content, string) {
	systemInstruction, rest := llm.SplitMessages(messages)
	contents := make([]*genai.Content, 0, len(rest))

	for _, msg := range rest {
		switch msg.Role {
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	return contents, systemInstruction
}

// convertResponse converts Gemini response to llm format.
func convertResponse(resp *genai.GenerateContentResponse) *llm.ChatResponse {
	result := &llm.ChatResponse{}
	if resp == nil {
		return result
	}

	if resp.UsageMetadata != nil {
		result.Usage = llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]
		if candidate.Content != nil {
			var sb strings.Builder
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			result.Content = sb.String()
		}
	}

	return result
}

var _ llm.Provider = (*Provider)(nil)
