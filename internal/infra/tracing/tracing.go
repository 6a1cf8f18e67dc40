package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

const instrumentationName = "github.com/yanqian/weather-dashboard"

// Provider owns the process tracer provider.
type Provider struct {
	tp       trace.TracerProvider
	shutdown func(context.Context) error
}

// New exports spans to zipkin when tracing is enabled and falls back to a no-op provider otherwise.
func New(cfg config.TracingConfig, logger *slog.Logger) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tp:       noop.NewTracerProvider(),
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	exporter, err := zipkin.New(cfg.ZipkinEndpoint)
	if err != nil {
		return nil, fmt.Errorf("create zipkin exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.With("component", "tracing").Info("zipkin tracing enabled", "endpoint", cfg.ZipkinEndpoint, "service_name", cfg.ServiceName)
	return &Provider{tp: tp, shutdown: tp.Shutdown}, nil
}

// Tracer returns the service tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(instrumentationName)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
