package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Handler wires the HTTP transport to the forecast service.
type Handler struct {
	forecastSvc forecast.Service
	cacheMaxAge time.Duration
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, forecastSvc forecast.Service, logger *slog.Logger) *Handler {
	return &Handler{
		forecastSvc: forecastSvc,
		cacheMaxAge: cfg.Weather.CacheMaxAge,
		logger:      logger.With("component", "http.handler"),
	}
}

// GetWeather resolves ?city= or ?lat=&lon= into a normalized forecast.
func (h *Handler) GetWeather(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, forecast.CodeInvalidInput, forecast.MsgInvalidInput, err))
		return
	}

	resp, err := h.forecastSvc.Forecast(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, forecastHTTPError(err))
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.cacheMaxAge.Seconds())))
	c.JSON(http.StatusOK, resp)
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func forecastHTTPError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	message := apperrors.MessageOf(err)

	switch code {
	case forecast.CodeInvalidInput:
		return NewHTTPError(http.StatusBadRequest, code, message, err)
	case forecast.CodeUnconfigured:
		return NewHTTPError(http.StatusInternalServerError, code, message, err)
	case forecast.CodeUpstreamError:
		status := http.StatusBadGateway
		var upErr *forecast.UpstreamError
		if errors.As(err, &upErr) && upErr.Status >= 400 && upErr.Status < 600 {
			status = upErr.Status
		}
		return NewHTTPError(status, code, message, err)
	case forecast.CodeBadPayload:
		return NewHTTPError(http.StatusBadGateway, code, message, err)
	case forecast.CodeTimeout:
		return NewHTTPError(http.StatusRequestTimeout, code, message, err)
	case forecast.CodeNetworkError:
		return NewHTTPError(http.StatusServiceUnavailable, code, message, err)
	default:
		return NewHTTPError(http.StatusInternalServerError, forecast.CodeUnknown, forecast.MsgUnknown, err)
	}
}
