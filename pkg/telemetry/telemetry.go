// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry wires logging, tracing and metrics for role agents.
package telemetry

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultServiceName is reported when no service name is configured.
const DefaultServiceName = "roleagent"

// ShutdownFunc flushes and stops the exporters.
type ShutdownFunc func(context.Context) error

// Config selects the exporter and describes the role service being
// observed. Role fields end up as resource attributes on every span and
// metric, so one collector can tell the seven role services apart.
type Config struct {
	Exporter     string // none, stdout, otlp
	OTLPEndpoint string
	OTLPInsecure bool

	Role        string // display name, e.g. "QA Engineer"
	RoleSlug    string
	LLMProvider string
	LLMModel    string
}

// Init initializes the OpenTelemetry SDK with stdout exporters.
func Init(serviceName, version string) (ShutdownFunc, error) {
	return InitWithConfig(serviceName, version, Config{Exporter: "stdout"})
}

// InitWithConfig installs global tracer and meter providers for cfg.
// Exporter "none" leaves the global no-op providers in place.
func InitWithConfig(serviceName, version string, cfg Config) (ShutdownFunc, error) {
	exporter := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	if exporter == "none" {
		return func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()
	res, err := NewResource(ctx, serviceName, version, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	spanExp, metricExp, err := newExporters(ctx, exporter, cfg)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(spanExp, trace.WithBatchTimeout(time.Second)),
		trace.WithResource(res),
	)
	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExp, metric.WithInterval(time.Minute))),
		metric.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		if err := stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx)); err != nil {
			return fmt.Errorf("telemetry shutdown: %w", err)
		}
		return nil
	}, nil
}

// NewResource describes the role service: service name and version plus
// the role and backend it runs with. Empty fields are left out.
func NewResource(ctx context.Context, serviceName, version string, cfg Config) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	}
	optional := []struct{ key, value string }{
		{AttrAgentRole, cfg.Role},
		{AttrAgentSlug, cfg.RoleSlug},
		{AttrLLMProvider, cfg.LLMProvider},
		{AttrAgentModel, cfg.LLMModel},
	}
	for _, o := range optional {
		if o.value != "" {
			attrs = append(attrs, attribute.String(o.key, o.value))
		}
	}
	if cfg.RoleSlug != "" {
		attrs = append(attrs, semconv.ServiceInstanceID(serviceName+"/"+cfg.RoleSlug))
	}
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

func newExporters(ctx context.Context, exporter string, cfg Config) (trace.SpanExporter, metric.Exporter, error) {
	switch exporter {
	case "", "stdout":
		spanExp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		metricExp, err := stdoutmetric.New()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		return spanExp, metricExp, nil

	case "otlp":
		if cfg.OTLPEndpoint == "" {
			return nil, nil, fmt.Errorf("otlp endpoint is required")
		}
		traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			creds := insecure.NewCredentials()
			traceOpts = append(traceOpts, otlptracegrpc.WithTLSCredentials(creds))
			metricOpts = append(metricOpts, otlpmetricgrpc.WithTLSCredentials(creds))
		}
		spanExp, err := otlptracegrpc.New(ctx, traceOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create otlp trace exporter: %w", err)
		}
		metricExp, err := otlpmetricgrpc.New(ctx, metricOpts...)
		if err != nil {
			_ = spanExp.Shutdown(ctx)
			return nil, nil, fmt.Errorf("failed to create otlp metric exporter: %w", err)
		}
		return spanExp, metricExp, nil

	default:
		return nil, nil, fmt.Errorf("unknown telemetry exporter: %s", exporter)
	}
}
