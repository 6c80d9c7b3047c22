// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package app wires one role agent service together.
// This is the composition root: configuration, logging, telemetry, the
// generation backend, the agent and its HTTP server are created here.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/orquestrador/roleagents/pkg/agent"
	"github.com/orquestrador/roleagents/pkg/config"
	"github.com/orquestrador/roleagents/pkg/core"
	"github.com/orquestrador/roleagents/pkg/errors"
	"github.com/orquestrador/roleagents/pkg/llm"
	"github.com/orquestrador/roleagents/pkg/roles"
	"github.com/orquestrador/roleagents/pkg/server"
	"github.com/orquestrador/roleagents/pkg/telemetry"
)

// App holds a configured, not yet running, role service.
type App struct {
	cfg      *config.Config
	manifest core.RoleManifest
	watcher  *config.Watcher
	provider llm.Provider
	version  string
	levelVar *slog.LevelVar
}

// Option configures an App.
type Option func(*App)

// WithWatcher reloads the log level whenever the watched config changes.
func WithWatcher(w *config.Watcher) Option {
	return func(a *App) { a.watcher = w }
}

// WithVersion sets the version reported to telemetry.
func WithVersion(v string) Option {
	return func(a *App) {
		if v != "" {
			a.version = v
		}
	}
}

// WithProvider bypasses the configured backend.
func WithProvider(p llm.Provider) Option {
	return func(a *App) { a.provider = p }
}

// New validates cfg and resolves its role. All configuration problems,
// including a missing credential or an unknown role, surface here.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeConfig, "configuration is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog(cfg.Agent.RolesFile)
	if err != nil {
		return nil, err
	}
	manifest, err := catalog.Lookup(cfg.Agent.Role)
	if err != nil {
		return nil, errors.New(errors.CodeConfig,
			fmt.Sprintf("unknown agent.role %q (known: %v)", cfg.Agent.Role, catalog.SortedSlugs()), err)
	}

	a := &App{
		cfg:      cfg,
		manifest: manifest,
		version:  "dev",
		levelVar: new(slog.LevelVar),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// LoadCatalog returns the built-in roles, overlaid with rolesFile when set.
func LoadCatalog(rolesFile string) (*roles.Catalog, error) {
	if rolesFile == "" {
		return roles.Default(), nil
	}
	overlay, err := roles.LoadFile(rolesFile)
	if err != nil {
		return nil, err
	}
	return roles.Merge(roles.Default(), overlay), nil
}

// Manifest returns the role this app serves.
func (a *App) Manifest() core.RoleManifest { return a.manifest }

// Addr is the configured listen address, or the role's default port.
func (a *App) Addr() string {
	if a.cfg.Server.Addr != "" {
		return a.cfg.Server.Addr
	}
	return a.manifest.DefaultAddr()
}

// Run listens on Addr and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve starts every component and serves on ln until ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	// 1. Logging first so everything after can report.
	logger, closer, err := telemetry.SetupLogging(logOptions(a.cfg.Log, a.levelVar))
	if err != nil {
		ln.Close()
		return errors.New(errors.CodeConfig, "setup logging", err)
	}
	defer closer.Close()

	// 2. Tracing and metrics.
	shutdown, err := telemetry.InitWithConfig(a.cfg.Telemetry.ServiceName, a.version, a.telemetryConfig())
	if err != nil {
		ln.Close()
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("telemetry.shutdown.failed", slog.String("error", err.Error()))
		}
	}()
	metrics, err := telemetry.NewTaskMetrics(ctx)
	if err != nil {
		logger.Warn("telemetry.metrics.disabled", slog.String("error", err.Error()))
	}

	// 3. Generation backend.
	provider := a.provider
	if provider == nil {
		provider, err = NewProvider(ctx, a.cfg.LLM)
		if err != nil {
			ln.Close()
			return err
		}
		if c, ok := provider.(io.Closer); ok {
			defer c.Close()
		}
	}

	// 4. Agent and server.
	ag, err := agent.FromManifest(a.manifest, provider,
		agent.WithModel(a.cfg.LLM.Model),
		agent.WithLogger(logger),
		agent.WithMetrics(metrics),
		agent.WithEventEmitter(&logEventEmitter{logger: logger}),
	)
	if err != nil {
		ln.Close()
		return err
	}
	srv := server.New(ag,
		server.WithLogger(logger),
		server.WithShutdownTimeout(time.Duration(a.cfg.Server.ShutdownTimeoutSeconds)*time.Second),
	)

	// 5. Live log level changes.
	if a.watcher != nil {
		a.watcher.OnChange(func(cfg *config.Config) {
			level := telemetry.ParseLogLevel(cfg.Log.Level)
			if level != a.levelVar.Level() {
				a.levelVar.Set(level)
				logger.Info("config.log_level.changed", slog.String("level", level.String()))
			}
		})
		a.watcher.Start(ctx)
		defer a.watcher.Stop()
	}

	logger.Info("app.starting",
		slog.String("role", a.manifest.Profile.Name),
		slog.String("slug", a.manifest.Slug),
		slog.String("llm_provider", a.cfg.LLM.NormalizedProvider()),
		slog.String("addr", ln.Addr().String()),
	)
	return srv.Serve(ctx, ln)
}

// LevelVar exposes the live log level.
func (a *App) LevelVar() *slog.LevelVar { return a.levelVar }

func logOptions(cfg config.LogConfig, levelVar *slog.LevelVar) telemetry.LogOptions {
	return telemetry.LogOptions{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Output:     cfg.Output,
		FilePath:   cfg.File.Path,
		MaxSizeMB:  cfg.File.MaxSize,
		MaxBackups: cfg.File.MaxBackups,
		MaxAgeDays: cfg.File.MaxAge,
		Compress:   cfg.File.Compress,
		LevelVar:   levelVar,
	}
}

func (a *App) telemetryConfig() telemetry.Config {
	tc := a.cfg.Telemetry
	if !tc.Enabled {
		return telemetry.Config{Exporter: "none"}
	}
	return telemetry.Config{
		Exporter:     tc.Exporter,
		OTLPEndpoint: tc.Endpoint,
		OTLPInsecure: tc.Insecure,
		Role:         a.manifest.Profile.Name,
		RoleSlug:     a.manifest.Slug,
		LLMProvider:  a.cfg.LLM.NormalizedProvider(),
		LLMModel:     a.cfg.LLM.Model,
	}
}

// logEventEmitter writes lifecycle events to the debug log.
type logEventEmitter struct {
	logger *slog.Logger
}

func (e *logEventEmitter) Emit(ctx context.Context, ev core.Event) {
	e.logger.DebugContext(ctx, "task.event",
		slog.String("type", string(ev.Type)),
		slog.String("role", ev.Role),
		slog.String("task_id", ev.TaskID),
		slog.String("run_id", ev.RunID),
	)
}
