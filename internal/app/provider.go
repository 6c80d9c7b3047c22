// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/orquestrador/roleagents/pkg/config"
	"github.com/orquestrador/roleagents/pkg/errors"
	"github.com/orquestrador/roleagents/pkg/llm"
	"github.com/orquestrador/roleagents/pkg/providers/anthropic"
	"github.com/orquestrador/roleagents/pkg/providers/gemini"
	"github.com/orquestrador/roleagents/pkg/providers/openai"
)

// MockResponse is what the mock backend answers to every task.
const MockResponse = "Mock response from role agent"

// NewProvider creates the generation backend named by cfg.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (llm.Provider, error) {
	key := cfg.ResolveAPIKey()
	switch cfg.NormalizedProvider() {
	case config.ProviderGemini:
		p, err := gemini.NewWithAPIKey(ctx, key, gemini.WithModel(cfg.Model))
		if err != nil {
			return nil, errors.New(errors.CodeConfig, "create gemini backend", err)
		}
		return p, nil
	case config.ProviderOpenAI:
		return openai.NewWithAPIKey(key, openai.WithModel(cfg.Model), openai.WithBaseURL(cfg.BaseURL)), nil
	case config.ProviderAnthropic:
		return anthropic.NewWithAPIKey(key, anthropic.WithModel(cfg.Model), anthropic.WithBaseURL(cfg.BaseURL)), nil
	case config.ProviderOllama:
		return llm.NewOllama(cfg.BaseURL, llm.WithOllamaModel(cfg.Model)), nil
	case config.ProviderMock:
		return &llm.MockProvider{Response: MockResponse}, nil
	default:
		return nil, errors.New(errors.CodeConfig, fmt.Sprintf("unknown llm provider: %s", cfg.Provider), nil)
	}
}
