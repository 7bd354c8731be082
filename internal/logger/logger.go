// Package logger provides structured logging setup for the taskconnect backend.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/simaogato/taskconnect-backend/internal/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON to stdout with a "service" attribute on every record. When
// cfg.File is set, records are mirrored as text into that file; the returned
// close function releases it.
func New(cfg config.Logging) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		return build(cfg, os.Stdout, nil), func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
	}
	return build(cfg, os.Stdout, f), f.Close, nil
}

func build(cfg config.Logging, stdout, mirror io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler = slog.NewJSONHandler(stdout, opts)
	if mirror != nil {
		handler = slogmulti.Fanout(handler, slog.NewTextHandler(mirror, opts))
	}

	return slog.New(handler).With("service", cfg.Service)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
