// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions describes where and how logs are written.
type LogOptions struct {
	Level  string
	Format string // text, json
	Output string // stdout, stderr, file

	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// LevelVar, when set, receives Level and controls the handler so the
	// level can be changed while running.
	LevelVar *slog.LevelVar
}

// NewLogWriter resolves opts.Output to a writer. File output is rotated
// with lumberjack; the returned closer must be called on shutdown.
func NewLogWriter(opts LogOptions) (io.Writer, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Output)) {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	case "file":
		if opts.FilePath == "" {
			return nil, nil, fmt.Errorf("log file path is required when output is file")
		}
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		return rotator, rotator, nil
	default:
		return nil, nil, fmt.Errorf("unsupported log output: %s", opts.Output)
	}
}

// SetupLogging builds the writer for opts and installs the global slog logger.
func SetupLogging(opts LogOptions) (*slog.Logger, io.Closer, error) {
	w, closer, err := NewLogWriter(opts)
	if err != nil {
		return nil, nil, err
	}
	var leveler slog.Leveler = ParseLogLevel(opts.Level)
	if opts.LevelVar != nil {
		opts.LevelVar.Set(ParseLogLevel(opts.Level))
		leveler = opts.LevelVar
	}
	logger := slog.New(newSlogHandler(w, leveler, opts.Format))
	slog.SetDefault(logger)
	return logger, closer, nil
}

// NewLogger returns a trace-aware logger without touching the global one.
func NewLogger(output io.Writer, level, format string) *slog.Logger {
	return slog.New(newSlogHandler(output, ParseLogLevel(level), format))
}

func newSlogHandler(output io.Writer, level slog.Leveler, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	var base slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		base = slog.NewJSONHandler(output, opts)
	default:
		base = slog.NewTextHandler(output, opts)
	}
	return &traceHandler{next: base}
}

type traceHandler struct {
	next slog.Handler
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, record slog.Record) error {
	traceID, spanID := spanIDsFromContext(ctx)
	if traceID != "" && !recordHasAttr(record, "trace_id") {
		record.AddAttrs(slog.String("trace_id", traceID))
	}
	if spanID != "" && !recordHasAttr(record, "span_id") {
		record.AddAttrs(slog.String("span_id", spanID))
	}
	return h.next.Handle(ctx, record)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{next: h.next.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{next: h.next.WithGroup(name)}
}

// ParseLogLevel maps a level name to slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func spanIDsFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

func recordHasAttr(record slog.Record, key string) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
