// Package logging wraps log/slog so every component logs through the
// same handler, configured once at startup.
package logging

import (
	"log/slog"
	"os"
)

// Init installs the process-wide logger and returns it. Logs go to
// stderr so query results on stdout stay machine-readable.
func Init(level slog.Level, jsonFormat bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string to a slog level, defaulting to
// info.
func ParseLevel(s string) slog.Level {
	switch s {
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

// Component returns a logger tagged with the component name.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
