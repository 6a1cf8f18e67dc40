package forecast

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Service resolves a location into a normalized forecast.
type Service interface {
	Forecast(ctx context.Context, req Request) (Response, error)
}

// Client fetches the raw provider payload for a validated query.
type Client interface {
	Fetch(ctx context.Context, query Query) (ProviderForecast, error)
}

type service struct {
	client Client
	tracer trace.Tracer
	logger *slog.Logger
}

// NewService wires up the forecast domain.
func NewService(client Client, tracer trace.Tracer, logger *slog.Logger) Service {
	return &service{
		client: client,
		tracer: tracer,
		logger: logger.With("component", "forecast.service"),
	}
}

func (s *service) Forecast(ctx context.Context, req Request) (Response, error) {
	query, err := ParseQuery(req)
	if err != nil {
		return Response{}, err
	}

	payload, err := s.client.Fetch(ctx, query)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrap(CodeUnknown, MsgUnknown, err)
		}
		s.logger.Warn("forecast fetch failed", "query_kind", query.Kind(), "code", apperrors.CodeOf(err), "error", err)
		return Response{}, err
	}

	_, span := s.tracer.Start(ctx, "forecast.normalize")
	defer span.End()

	res, err := Normalize(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize failed")
		s.logger.Error("forecast normalize failed", "query_kind", query.Kind(), "error", err)
		return Response{}, err
	}
	span.SetAttributes(
		attribute.Int("forecast.days", len(res.DailyForecast)),
		attribute.Int("forecast.alerts", len(res.Alerts)),
	)

	s.logger.Info("forecast served", "query_kind", query.Kind(), "city", res.City, "days", len(res.DailyForecast), "alerts", len(res.Alerts))
	return res, nil
}
