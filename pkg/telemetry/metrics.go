// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/orquestrador/roleagents/pkg/errors"
)

// ErrorMetrics tracks error rates and types for production monitoring.
type ErrorMetrics struct {
	// errorCounter tracks total errors by code and component
	errorCounter metric.Int64Counter
}

// NewErrorMetrics creates a new error metrics tracker with OTEL meters.
func NewErrorMetrics(ctx context.Context) (*ErrorMetrics, error) {
	meter := otel.Meter("roleagents/errors")

	errorCounter, err := meter.Int64Counter(
		"roleagent.errors.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, err
	}

	return &ErrorMetrics{errorCounter: errorCounter}, nil
}

// RecordErrorMetric increments the error counter for the given error code and component.
func (em *ErrorMetrics) RecordErrorMetric(ctx context.Context, err error, component string) {
	if em == nil || err == nil {
		return
	}

	var ae *errors.AgentError
	if stderrors.As(err, &ae) {
		em.errorCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("error.code", string(ae.Code)),
				attribute.String("component", component),
				attribute.String("recoverable", ae.RecoverableString()),
			),
		)
		return
	}
	em.errorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error.code", "UNKNOWN"),
			attribute.String("component", component),
			attribute.String("recoverable", "unknown"),
		),
	)
}

// TaskMetrics records per-role task execution counts, latency and the
// approximate token usage reported back to callers.
type TaskMetrics struct {
	executions metric.Int64Counter
	duration   metric.Float64Histogram
	tokens     metric.Int64Counter
	errors     *ErrorMetrics
}

// NewTaskMetrics creates task meters on the global meter provider.
func NewTaskMetrics(ctx context.Context) (*TaskMetrics, error) {
	meter := otel.Meter("roleagents/tasks")

	executions, err := meter.Int64Counter(
		"roleagent.tasks.executed",
		metric.WithDescription("Task executions by role and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"roleagent.tasks.duration",
		metric.WithDescription("Task execution latency including the backend call"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	tokens, err := meter.Int64Counter(
		"roleagent.tasks.tokens",
		metric.WithDescription("Approximate word-count tokens reported in task responses"),
	)
	if err != nil {
		return nil, err
	}

	errMetrics, err := NewErrorMetrics(ctx)
	if err != nil {
		return nil, err
	}

	return &TaskMetrics{
		executions: executions,
		duration:   duration,
		tokens:     tokens,
		errors:     errMetrics,
	}, nil
}

// RecordSuccess records a completed execution.
func (tm *TaskMetrics) RecordSuccess(ctx context.Context, role string, durationMs float64, tokensUsed int) {
	if tm == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrAgentRole, role),
		attribute.String(AttrTaskOutcome, OutcomeSuccess),
	)
	tm.executions.Add(ctx, 1, attrs)
	tm.duration.Record(ctx, durationMs, attrs)
	tm.tokens.Add(ctx, int64(tokensUsed), metric.WithAttributes(attribute.String(AttrAgentRole, role)))
}

// RecordFailure records a failed execution and its error code.
func (tm *TaskMetrics) RecordFailure(ctx context.Context, role string, durationMs float64, err error) {
	if tm == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrAgentRole, role),
		attribute.String(AttrTaskOutcome, OutcomeFailure),
	)
	tm.executions.Add(ctx, 1, attrs)
	tm.duration.Record(ctx, durationMs, attrs)
	tm.errors.RecordErrorMetric(ctx, err, "executor")
}
