// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent binds a role to a generation backend and exposes the
// operations a role service offers: execute a task and report health.
package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/executor"
	"github.com/orquestrador/roleagents/pkg/llm"
	"github.com/orquestrador/roleagents/pkg/telemetry"
)

// Agent is one role bound to one backend.
type Agent struct {
	profile   core.RoleProfile
	directive core.RoleDirective
	provider  llm.Provider
	model     string
	logger    *slog.Logger
	metrics   *telemetry.TaskMetrics
	events    core.EventEmitter

	exec *executor.Executor
}

// Option configures an Agent instance.
type Option func(*Agent) error

// WithModel sets the backend model.
func WithModel(model string) Option {
	return func(a *Agent) error {
		a.model = strings.TrimSpace(model)
		return nil
	}
}

// WithLogger sets the agent logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}

// WithMetrics enables task metrics.
func WithMetrics(metrics *telemetry.TaskMetrics) Option {
	return func(a *Agent) error {
		a.metrics = metrics
		return nil
	}
}

// WithEventEmitter forwards task lifecycle events to emitter.
func WithEventEmitter(emitter core.EventEmitter) Option {
	return func(a *Agent) error {
		a.events = emitter
		return nil
	}
}

// New creates an Agent for profile. It fails with a CONFIG_ERROR when the
// provider is missing or the profile is incomplete.
func New(profile core.RoleProfile, directive core.RoleDirective, provider llm.Provider, opts ...Option) (*Agent, error) {
	a := &Agent{
		profile:   profile,
		directive: directive,
		provider:  provider,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if provider == nil {
		return nil, NewConfigError("generation backend is required", profile.Name)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, NewConfigError("role name is required", "")
	}
	if strings.TrimSpace(profile.SystemInstruction) == "" {
		return nil, NewConfigError("role system instruction is required", profile.Name)
	}

	execOpts := []executor.Option{
		executor.WithModel(a.model),
		executor.WithLogger(a.logger),
		executor.WithMetrics(a.metrics),
	}
	if a.events != nil {
		execOpts = append(execOpts, executor.WithEventEmitter(a.events))
	}
	a.exec = executor.New(profile, directive, provider, execOpts...)
	return a, nil
}

// FromManifest creates an Agent from a catalog manifest.
func FromManifest(m core.RoleManifest, provider llm.Provider, opts ...Option) (*Agent, error) {
	return New(m.Profile, m.Directive, provider, opts...)
}

// Role returns the role display name.
func (a *Agent) Role() string { return a.profile.Name }

// Profile returns the role profile.
func (a *Agent) Profile() core.RoleProfile { return a.profile }

// Directive returns the role directive.
func (a *Agent) Directive() core.RoleDirective { return a.directive }

// Model returns the configured model, empty for the provider default.
func (a *Agent) Model() string { return a.model }

// Execute validates req and runs it through the executor.
// Invalid requests fail with INVALID_INPUT before the backend is reached.
func (a *Agent) Execute(ctx context.Context, req core.TaskRequest) (*core.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		a.logger.WarnContext(ctx, "agent.task.rejected",
			slog.String("role", a.profile.Name),
			slog.String("task_id", req.TaskID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return a.exec.Execute(ctx, req)
}

// CompilePrompt returns the prompt Execute would send for req.
func (a *Agent) CompilePrompt(req core.TaskRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return a.exec.Compile(req), nil
}

// Health reports liveness. It never calls the backend.
func (a *Agent) Health() core.HealthReport {
	return core.NewHealthReport(a.profile.Name)
}
