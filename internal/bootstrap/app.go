package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/tracing"
)

const shutdownGrace = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	tracing *tracing.Provider
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, tp *tracing.Provider) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, tracing: tp}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		a.logger.Info("shutdown signal received")
		runErr = a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.tracing.Shutdown(flushCtx); err != nil {
		a.logger.Warn("tracer shutdown failed", "error", err)
	}
	return runErr
}
