package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

const (
	defaultBaseURL   = "https://api.weatherapi.com/v1"
	defaultAPIKeyEnv = "WEATHER_API_KEY"
	defaultTimeout   = 15 * time.Second
	defaultDays      = 7
	maxBodyBytes     = 4 << 20
	redactedValue    = "REDACTED"
	unknownUpstream  = "Unknown error"
)

// Config describes how to reach weatherapi.com.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
	Days      int
}

// Client fetches forecast payloads from weatherapi.com.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	lookupEnv  func(string) string
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient builds an API client. Connections are not reused between calls.
func NewClient(cfg Config, tracer trace.Tracer, logger *slog.Logger) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if strings.TrimSpace(cfg.APIKeyEnv) == "" {
		cfg.APIKeyEnv = defaultAPIKeyEnv
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true

	return &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		lookupEnv: os.Getenv,
		tracer:    tracer,
		logger:    logger.With("component", "weatherapi.client"),
	}
}

// Fetch issues one forecast request for the query and returns the decoded payload.
func (c *Client) Fetch(ctx context.Context, query forecast.Query) (forecast.ProviderForecast, error) {
	apiKey := strings.TrimSpace(c.lookupEnv(c.cfg.APIKeyEnv))
	if apiKey == "" {
		c.logger.Error("weather api credential missing", "env", c.cfg.APIKeyEnv)
		return forecast.ProviderForecast{}, apperrors.Wrap(forecast.CodeUnconfigured, forecast.UnconfiguredMessage(c.cfg.APIKeyEnv), nil)
	}

	ctx, span := c.tracer.Start(ctx, "weatherapi.fetch", trace.WithAttributes(
		attribute.String("weather.query_kind", query.Kind()),
	))
	defer span.End()

	endpoint := c.forecastURL(apiKey, query)
	safeURL := redactURL(endpoint)
	c.logger.Info("weather api request", "url", safeURL, "query_kind", query.Kind())

	payload, status, err := c.do(ctx, endpoint, safeURL)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.CodeOf(err))
		c.logger.Warn("weather api request failed", "url", safeURL, "status", status, "code", apperrors.CodeOf(err), "error", err)
		return forecast.ProviderForecast{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, endpoint, safeURL string) (forecast.ProviderForecast, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return forecast.ProviderForecast{}, 0, apperrors.Wrap(forecast.CodeUnknown, forecast.MsgUnknown, scrub(err, safeURL))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return forecast.ProviderForecast{}, 0, classifyTransport(scrub(err, safeURL))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return forecast.ProviderForecast{}, resp.StatusCode, classifyTransport(scrub(err, safeURL))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upErr := &forecast.UpstreamError{Status: resp.StatusCode, Message: providerMessage(body)}
		return forecast.ProviderForecast{}, resp.StatusCode, apperrors.Wrap(forecast.CodeUpstreamError, "Weather service error: "+upErr.Message, upErr)
	}

	var payload forecast.ProviderForecast
	if err := json.Unmarshal(body, &payload); err != nil {
		return forecast.ProviderForecast{}, resp.StatusCode, apperrors.Wrap(forecast.CodeBadPayload, forecast.MsgBadPayload, fmt.Errorf("decode forecast: %w", err))
	}
	if !payload.HasRequiredSections() {
		return forecast.ProviderForecast{}, resp.StatusCode, apperrors.Wrap(forecast.CodeBadPayload, forecast.MsgBadPayload, errors.New("missing location, current or forecast section"))
	}
	return payload, resp.StatusCode, nil
}

func (c *Client) forecastURL(apiKey string, query forecast.Query) string {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("q", query.Value())
	params.Set("days", strconv.Itoa(c.cfg.Days))
	params.Set("aqi", "no")
	params.Set("alerts", "yes")
	return c.baseURL + "/forecast.json?" + params.Encode()
}

type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func providerMessage(body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err != nil {
		return unknownUpstream
	}
	if msg := strings.TrimSpace(pe.Error.Message); msg != "" {
		return msg
	}
	return unknownUpstream
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(forecast.CodeTimeout, forecast.MsgTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrap(forecast.CodeTimeout, forecast.MsgTimeout, err)
	}
	return apperrors.Wrap(forecast.CodeNetworkError, forecast.MsgNetworkError, err)
}

// scrub swaps the URL carried by a *url.Error for its redacted form.
func scrub(err error, safeURL string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = safeURL
	}
	return err
}

func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	params := parsed.Query()
	if params.Has("key") {
		params.Set("key", redactedValue)
		parsed.RawQuery = params.Encode()
	}
	return parsed.String()
}
