package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger. GO_ENV=production selects a JSON
// handler for log aggregation; anything else gets a text handler. The
// minimum level comes from LOG_LEVEL (debug, info, warn, error), case
// insensitive, defaulting to info.
func NewLogger() *slog.Logger {
	level := logLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
