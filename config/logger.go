package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the application logger. Production emits JSON lines for
// log shippers; every other environment emits human-readable text. LOG_LEVEL
// selects the minimum level (debug, info, warn, error), defaulting to info.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
