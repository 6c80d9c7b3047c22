package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMockProvider(t *testing.T) {
	mock := &MockProvider{Response: "Hello world"}
	resp, err := mock.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "Hello world" {
		t.Errorf("Expected 'Hello world', got '%s'", resp.Content)
	}
}

func TestNewPromptRequest(t *testing.T) {
	req := NewPromptRequest("m", "the prompt", "be helpful")
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != RoleSystem || req.Messages[0].Content != "be helpful" {
		t.Errorf("unexpected system message %+v", req.Messages[0])
	}
	if req.Messages[1].Role != RoleUser || req.Messages[1].Content != "the prompt" {
		t.Errorf("unexpected user message %+v", req.Messages[1])
	}

	noSystem := NewPromptRequest("m", "p", "")
	if len(noSystem.Messages) != 1 {
		t.Errorf("expected system message to be skipped when empty")
	}
}

func TestGenerate(t *testing.T) {
	rec := &RecordingProvider{Response: "generated"}
	out, err := Generate(context.Background(), rec, "model-x", "prompt", "system")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "generated" {
		t.Errorf("expected 'generated', got %q", out)
	}
	reqs := rec.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected exactly one backend call, got %d", len(reqs))
	}
	if reqs[0].Model != "model-x" {
		t.Errorf("expected model to be forwarded, got %q", reqs[0].Model)
	}
}

func TestGenerateFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	if _, err := Generate(context.Background(), &FailingMockProvider{Err: boom}, "", "p", "s"); !errors.Is(err, boom) {
		t.Errorf("expected provider error, got %v", err)
	}
	if _, err := Generate(context.Background(), &MockProvider{Response: ""}, "", "p", "s"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompleteKeepsUsage(t *testing.T) {
	resp, err := Complete(context.Background(), &MockProvider{Response: "text"}, NewPromptRequest("", "p", ""))
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Usage.TotalTokens != 20 {
		t.Errorf("expected provider usage to be returned, got %+v", resp.Usage)
	}

	nilResp := &MockProvider{ChatFunc: func(context.Context, ChatRequest) (*ChatResponse, error) { return nil, nil }}
	if _, err := Complete(context.Background(), nilResp, ChatRequest{}); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse for nil response, got %v", err)
	}
}

func TestSplitMessages(t *testing.T) {
	system, rest := SplitMessages([]Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hello"},
	})
	if system != "sys" {
		t.Errorf("expected system 'sys', got %q", system)
	}
	if len(rest) != 1 || rest[0].Content != "hello" {
		t.Errorf("unexpected remaining messages %+v", rest)
	}
}

func TestOllamaChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "llama3.1" {
			t.Errorf("expected default model, got %q", body.Model)
		}
		if body.Stream {
			t.Errorf("expected non-streaming request")
		}
		json.NewEncoder(w).Encode(ollamaResponse{
			Message:         Message{Role: RoleAssistant, Content: "olá"},
			Done:            true,
			PromptEvalCount: 7,
			EvalCount:       3,
		})
	}))
	defer srv.Close()

	p := NewOllama(srv.URL+"/", WithOllamaModel("llama3.1"))
	resp, err := p.Chat(context.Background(), NewPromptRequest("", "hi", "sys"))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "olá" {
		t.Errorf("expected 'olá', got %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 10 {
		t.Errorf("expected 10 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestOllamaChatStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL).Chat(context.Background(), NewPromptRequest("x", "hi", ""))
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
