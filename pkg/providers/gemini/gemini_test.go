// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"
	"testing"

	"github.com/orquestrador/roleagents/pkg/llm"
	"google.golang.org/genai"
)

func TestProviderImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestWithModel(t *testing.T) {
	p := &Provider{model: DefaultModel}
	WithModel("gemini-2.5-pro")(p)
	if p.model != "gemini-2.5-pro" {
		t.Errorf("expected model gemini-2.5-pro, got %s", p.model)
	}
	WithModel("")(p)
	if p.model != "gemini-2.5-pro" {
		t.Errorf("empty model must not override, got %s", p.model)
	}
}

func TestNewWithAPIKeyRequiresKey(t *testing.T) {
	if _, err := NewWithAPIKey(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestConvertMessages(t *testing.T) {
	contents, systemInstruction := convertMessages(llm.NewPromptRequest("", "Build it", "You are a Developer").Messages)

	if systemInstruction != "You are a Developer" {
		t.Errorf("expected system instruction, got %q", systemInstruction)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[0].Parts[0].Text != "Build it" {
		t.Errorf("unexpected content %+v", contents[0])
	}
}

func TestBuildRequestSetsSystemInstruction(t *testing.T) {
	req := llm.NewPromptRequest("", "prompt", "system text")
	req.Temperature = 0.4
	_, config := buildRequest(req)
	if config.SystemInstruction == nil || config.SystemInstruction.Parts[0].Text != "system text" {
		t.Errorf("expected system instruction in config")
	}
	if config.Temperature == nil || *config.Temperature != float32(0.4) {
		t.Errorf("expected temperature to be forwarded")
	}
}

func TestConvertResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Olá, "}, {Text: "mundo"}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     5,
			CandidatesTokenCount: 2,
			TotalTokenCount:      7,
		},
	}
	got := convertResponse(resp)
	if got.Content != "Olá, mundo" {
		t.Errorf("expected joined parts, got %q", got.Content)
	}
	if got.Usage.TotalTokens != 7 {
		t.Errorf("expected 7 total tokens, got %d", got.Usage.TotalTokens)
	}
}

func TestConvertResponseEmpty(t *testing.T) {
	if got := convertResponse(&genai.GenerateContentResponse{}); got.Content != "" {
		t.Errorf("expected empty content, got %q", got.Content)
	}
	if got := convertResponse(nil); got == nil {
		t.Errorf("expected non-nil response for nil input")
	}
}

func TestClose(t *testing.T) {
	p := &Provider{}
	if err := p.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
