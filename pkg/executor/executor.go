// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package executor runs one task for one role: compile the prompt, make a
// single generation call and wrap the outcome in a response envelope.
//
// An Executor holds no per-request state, so one instance serves concurrent
// requests without locking.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/llm"
	"github.com/orquestrador/roleagents/pkg/prompt"
	"github.com/orquestrador/roleagents/pkg/telemetry"
)

// Executor turns task requests into generated responses for a single role.
type Executor struct {
	profile  core.RoleProfile
	compiler *prompt.Compiler
	provider llm.Provider
	model    string

	logger  *slog.Logger
	metrics *telemetry.TaskMetrics
	events  core.EventEmitter
	tracer  trace.Tracer
}

// Option configures an Executor.
type Option func(*Executor)

// WithModel selects the backend model. Empty keeps the provider default.
func WithModel(model string) Option {
	return func(e *Executor) {
		e.model = model
	}
}

// WithLogger sets the logger used for execution logs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records execution metrics.
func WithMetrics(metrics *telemetry.TaskMetrics) Option {
	return func(e *Executor) {
		e.metrics = metrics
	}
}

// WithEventEmitter receives task lifecycle events.
func WithEventEmitter(emitter core.EventEmitter) Option {
	return func(e *Executor) {
		if emitter != nil {
			e.events = emitter
		}
	}
}

// New builds an executor for profile. The provider is required; callers
// going through agent.New get that checked up front.
func New(profile core.RoleProfile, directive core.RoleDirective, provider llm.Provider, opts ...Option) *Executor {
	e := &Executor{
		profile:  profile,
		compiler: prompt.NewCompiler(profile.Name, directive),
		provider: provider,
		logger:   slog.Default(),
		events:   core.NoopEventEmitter{},
		tracer:   otel.Tracer("roleagents/executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile returns the role profile this executor runs as.
func (e *Executor) Profile() core.RoleProfile { return e.profile }

// Model returns the configured model, empty for the provider default.
func (e *Executor) Model() string { return e.model }

// Compile renders the prompt for req without calling the backend.
func (e *Executor) Compile(req core.TaskRequest) string {
	return e.compiler.Compile(req)
}

// Execute runs req through the backend exactly once.
//
// On success the response carries the generated text and the approximate
// token count. On failure no response is returned; the error is always an
// *errors.AgentError with code LLM_ERROR whose cause is the backend failure.
func (e *Executor) Execute(ctx context.Context, req core.TaskRequest) (*core.TaskResponse, error) {
	ctx, runID := core.EnsureTaskRunID(ctx, req)
	role := e.profile.Name
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "executor.Execute", trace.WithAttributes(
		telemetry.AgentAttributes(role, e.model)...,
	))
	defer span.End()
	span.SetAttributes(telemetry.TaskAttributes(req.TaskID, req.Title, string(req.Priority))...)

	log := e.logger.With(
		slog.String("role", role),
		slog.String("task_id", req.TaskID),
		slog.String("run_id", runID),
	)
	log.InfoContext(ctx, "executor.task.start", slog.String("task_title", req.Title))
	e.events.Emit(ctx, core.NewEvent(core.EventTaskStarted, role, req.TaskID, runID, map[string]any{
		"title":    req.Title,
		"priority": string(req.Priority),
	}))

	fail := func(cause error) (*core.TaskResponse, error) {
		durationMs := msSince(start)
		ae := WrapExecutionError(cause, role, req.TaskID, e.model)
		span.RecordError(ae)
		span.SetStatus(codes.Error, ae.Detail())
		span.SetAttributes(telemetry.OutcomeAttributes(telemetry.OutcomeFailure, 0)...)
		e.metrics.RecordFailure(ctx, role, durationMs, ae)
		log.ErrorContext(ctx, "executor.task.failed",
			slog.String("error", cause.Error()),
			slog.String("error_code", string(ae.Code)),
			slog.Float64("duration_ms", durationMs),
		)
		e.events.Emit(ctx, core.NewEvent(core.EventTaskFailed, role, req.TaskID, runID, map[string]any{
			"error": cause.Error(),
		}))
		return nil, ae
	}

	compiled, err := e.safeCompile(req)
	if err != nil {
		return fail(err)
	}
	promptWords := prompt.WordCount(compiled)
	span.SetAttributes(telemetry.PromptAttributes(promptWords, optionalSections(req))...)

	llmStart := time.Now()
	llmCtx, llmSpan := e.tracer.Start(ctx, "executor.LLM.Chat", trace.WithAttributes(
		telemetry.LLMAttributes(e.model)...,
	))
	resp, err := llm.Complete(llmCtx, e.provider, llm.NewPromptRequest(e.model, compiled, e.profile.SystemInstruction))
	if resp != nil {
		llmSpan.SetAttributes(telemetry.LLMUsageAttributes(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, msSince(llmStart))...)
	}
	if err != nil {
		llmSpan.RecordError(err)
		llmSpan.SetStatus(codes.Error, err.Error())
	}
	llmSpan.End()
	if err != nil {
		return fail(err)
	}

	// Word-count approximation, not a tokenizer count.
	tokens := promptWords + prompt.WordCount(resp.Content)
	out := core.NewTaskResponse(resp.Content, tokens)

	durationMs := msSince(start)
	span.SetAttributes(telemetry.OutcomeAttributes(telemetry.OutcomeSuccess, out.TokensUsed)...)
	e.metrics.RecordSuccess(ctx, role, durationMs, out.TokensUsed)
	log.InfoContext(ctx, "executor.task.completed",
		slog.Int("tokens_used", out.TokensUsed),
		slog.Float64("duration_ms", durationMs),
	)
	e.events.Emit(ctx, core.NewEvent(core.EventTaskCompleted, role, req.TaskID, runID, map[string]any{
		"tokens_used": out.TokensUsed,
	}))
	return out, nil
}

func (e *Executor) safeCompile(req core.TaskRequest) (compiled string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prompt compilation failed: %v", r)
		}
	}()
	return e.compiler.Compile(req), nil
}

func optionalSections(req core.TaskRequest) int {
	n := 0
	if req.Context != "" {
		n++
	}
	if req.ExpectedOutput != "" {
		n++
	}
	return n
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
