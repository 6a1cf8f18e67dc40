package main

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/tracing"
	"github.com/yanqian/weather-dashboard/internal/infra/weatherapi"
	"github.com/yanqian/weather-dashboard/pkg/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Tracing.ServiceName)
}

func provideWeatherAPIConfig(cfg *config.Config) weatherapi.Config {
	return weatherapi.Config{
		BaseURL:   cfg.Weather.BaseURL,
		APIKeyEnv: cfg.Weather.APIKeyEnv,
		Timeout:   cfg.Weather.Timeout,
		Days:      cfg.Weather.ForecastDays,
	}
}

func provideTracing(cfg *config.Config, logger *slog.Logger) (*tracing.Provider, error) {
	return tracing.New(cfg.Tracing, logger)
}

func provideTracer(p *tracing.Provider) trace.Tracer {
	return p.Tracer()
}
