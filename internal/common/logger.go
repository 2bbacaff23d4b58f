package common

import (
	"fmt"
	"log/slog"
	"os"
)

// SetupLogger configures the default slog logger from config values.
func SetupLogger(level, format string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
