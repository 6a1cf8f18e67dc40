package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.GET("/weather", handler.GetWeather)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
