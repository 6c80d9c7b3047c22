// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orquestrador/roleagents/pkg/agent"
	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/llm"
	"github.com/orquestrador/roleagents/pkg/roles"
)

const loginBody = `{
  "task_id": "T-1",
  "title": "Build login form",
  "description": "Email and password with validation",
  "context": null,
  "expected_output": null,
  "project_name": "Acme",
  "project_description": "Customer portal",
  "priority": "High"
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()
	m, err := roles.Lookup("developer")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	a, err := agent.FromManifest(m, provider, agent.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("agent: %v", err)
	}
	return New(a, WithLogger(quietLogger()))
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, into any) {
	t.Helper()
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestExecuteSuccess(t *testing.T) {
	rec := &llm.RecordingProvider{Response: "```typescript:src/login.ts\nexport {}\n```"}
	srv := newTestServer(t, rec)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(loginBody)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var raw map[string]any
	decode(t, rr, &raw)
	if raw["success"] != true {
		t.Errorf("expected success=true, got %v", raw["success"])
	}
	if v, ok := raw["error"]; !ok || v != nil {
		t.Errorf("expected error to be null, got %v (present=%v)", v, ok)
	}
	if raw["output"] != rec.Response {
		t.Errorf("unexpected output %v", raw["output"])
	}
	if tokens, ok := raw["tokens_used"].(float64); !ok || tokens <= 0 {
		t.Errorf("expected positive tokens_used, got %v", raw["tokens_used"])
	}
	if len(rec.Requests()) != 1 {
		t.Fatalf("expected one backend call, got %d", len(rec.Requests()))
	}
}

func TestExecuteBackendFailure(t *testing.T) {
	srv := newTestServer(t, &llm.FailingMockProvider{Err: stderrors.New("quota exceeded")})

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(loginBody)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]string
	decode(t, rr, &body)
	if body["detail"] != "quota exceeded" {
		t.Errorf("expected backend description as detail, got %q", body["detail"])
	}
	if _, ok := body["output"]; ok {
		t.Error("failure body must not carry output")
	}
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"title":`, "invalid request body"},
		{"missing fields", `{"title":"x","priority":"High"}`, "missing required fields"},
		{"bad priority", strings.Replace(loginBody, `"High"`, `"Urgent"`, 1), "priority must be one of"},
		{"wrong type", `{"title": 42}`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &llm.RecordingProvider{Response: "x"}
			srv := newTestServer(t, rec)

			rr := httptest.NewRecorder()
			srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(tt.body)))

			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
			}
			var body map[string]string
			decode(t, rr, &body)
			if !strings.Contains(body["detail"], tt.want) {
				t.Errorf("detail %q does not contain %q", body["detail"], tt.want)
			}
			if len(rec.Requests()) != 0 {
				t.Error("backend must not be called")
			}
		})
	}
}

func TestExecuteOutlivesCallerCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var (
		backendErr  error
		hasDeadline bool
	)
	provider := &llm.MockProvider{ChatFunc: func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		close(started)
		<-release
		backendErr = ctx.Err()
		_, hasDeadline = ctx.Deadline()
		if backendErr != nil {
			return nil, backendErr
		}
		return &llm.ChatResponse{Content: "finished anyway"}, nil
	}}
	srv := newTestServer(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(loginBody)).WithContext(ctx)
	rr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.ServeHTTP(rr, req)
	}()

	<-started
	cancel()
	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not return")
	}

	if backendErr != nil {
		t.Fatalf("backend context was cancelled with the caller: %v", backendErr)
	}
	if hasDeadline {
		t.Error("no timeout should be imposed on the backend call")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body core.TaskResponse
	decode(t, rr, &body)
	if body.Output != "finished anyway" || !body.Success {
		t.Errorf("unexpected response %+v", body)
	}
}

func TestExecuteKeepsRequestID(t *testing.T) {
	var runID string
	provider := &llm.MockProvider{ChatFunc: func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		runID, _ = core.RunID(ctx)
		return &llm.ChatResponse{Content: "ok"}, nil
	}}
	srv := newTestServer(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(loginBody))
	req.Header.Set("X-Request-ID", "req-7")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if runID != "req-7" {
		t.Errorf("run id not carried to the backend, got %q", runID)
	}
}

func TestExecuteLowercasePriority(t *testing.T) {
	rec := &llm.RecordingProvider{Response: "ok"}
	srv := newTestServer(t, rec)

	body := strings.Replace(loginBody, `"High"`, `"critical"`, 1)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rec.Requests()[0].Messages[1].Content, "Priority: Critical") {
		t.Error("priority should be normalized")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &llm.MockProvider{Response: "x"})

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/execute", nil))
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected 405 with Allow: POST, got %d %q", rr.Code, rr.Header().Get("Allow"))
	}

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := &llm.RecordingProvider{Response: "x"}
	srv := newTestServer(t, rec)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body core.HealthReport
	decode(t, rr, &body)
	if body.Status != core.HealthHealthy || body.Role != "Developer" {
		t.Errorf("unexpected health %+v", body)
	}
	if len(rec.Requests()) != 0 {
		t.Error("health must not call the backend")
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &llm.MockProvider{Response: "x"})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m, _ := roles.Lookup("qa")
	a, _ := agent.FromManifest(m, &llm.MockProvider{Response: "x"}, agent.WithLogger(quietLogger()))
	srv := New(a, WithLogger(logger))

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "http.request" || entry["path"] != "/health" || entry["status"] != float64(200) {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	srv := newTestServer(t, &llm.MockProvider{Response: "x"})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
