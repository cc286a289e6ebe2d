package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a structured JSON logger with level from string. Every
// record carries the service name so logs from the API, the seeder and
// any future binary can be told apart on a shared stream.
func New(level, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With(slog.String("service", service))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
