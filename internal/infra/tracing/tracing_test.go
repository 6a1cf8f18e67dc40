package tracing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

func TestNewDisabledIsNoop(t *testing.T) {
	p, err := New(config.TracingConfig{Enabled: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "op")
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewEnabledRecordsSpans(t *testing.T) {
	p, err := New(config.TracingConfig{
		Enabled:        true,
		ServiceName:    "weather-dashboard-test",
		ZipkinEndpoint: "http://127.0.0.1:1/api/v2/spans",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "op")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	// The collector is unreachable, so only bound the flush.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}
