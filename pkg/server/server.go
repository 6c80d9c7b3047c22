// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes a role agent over HTTP+JSON.
//
// Routes:
//
//	POST /execute  TaskRequest -> TaskResponse
//	GET  /health   {"status": "healthy", "role": "<role>"}
//
// Failures are reported as {"detail": "<message>"} with 422 for invalid
// requests and 500 for execution failures.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/orquestrador/roleagents/pkg/agent"
	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/errors"
)

// MaxBodyBytes caps the size of a task request body.
const MaxBodyBytes = 4 << 20

// TaskAgent is what the server needs from an agent.
type TaskAgent interface {
	Role() string
	Execute(ctx context.Context, req core.TaskRequest) (*core.TaskResponse, error)
	Health() core.HealthReport
}

// Server routes HTTP requests to a TaskAgent.
type Server struct {
	agent           TaskAgent
	logger          *slog.Logger
	shutdownTimeout time.Duration
	handler         http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a server for a.
func New(a TaskAgent, opts ...Option) *Server {
	s := &Server{
		agent:           a,
		logger:          slog.Default(),
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/execute", s.handleExecute)
	mux.HandleFunc("/health", s.handleHealth)
	s.handler = withTracing(withRequestLogging(s.logger, mux), a.Role())
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listening",
			slog.String("role", s.agent.Role()),
			slog.String("addr", ln.Addr().String()),
		)
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("server.shutdown", slog.String("role", s.agent.Role()))
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req core.TaskRequest
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, agent.NewInvalidInputError("invalid request body: "+err.Error()))
		return
	}

	// A caller that goes away does not abort the task: the backend call
	// runs to completion or failure on its own. Values (trace, run id) are kept.
	ctx := context.WithoutCancel(r.Context())
	if id := r.Header.Get("X-Request-ID"); id != "" {
		ctx = core.WithRunID(ctx, id)
	}

	resp, err := s.agent.Execute(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, s.agent.Health())
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, err error) {
	ae := errors.AsAgentError(err)
	status := ae.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Detail: ae.Detail()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Detail: "Method Not Allowed"})
}
