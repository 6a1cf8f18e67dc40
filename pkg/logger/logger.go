package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const defaultService = "weather-dashboard"

// New constructs the JSON slog logger shared by every component, tagged with serviceName.
func New(serviceName string) *slog.Logger {
	return newWithWriter(os.Stdout, serviceName, os.Getenv("LOG_LEVEL"))
}

func newWithWriter(w io.Writer, serviceName, level string) *slog.Logger {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = defaultService
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
