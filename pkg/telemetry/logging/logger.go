// Package logging configures structured logging for the engine. All
// components log through log/slog; this package owns handler construction
// and the scan-scoped context helpers.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output format.
type Format string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = "json"
	// FormatText outputs logs in plain text format.
	FormatText Format = "text"
)

// ParseLevel converts a configuration string into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger writing to w (os.Stderr when nil) at the given level
// and format. It does not touch the global default logger.
func New(level slog.Level, format Format, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Setup builds a logger from configuration strings and installs it as the
// process default. Invalid values fall back to info/text with an error
// returned so callers can warn.
func Setup(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(levelStr)

	format := FormatText
	if strings.ToLower(formatStr) == string(FormatJSON) {
		format = FormatJSON
	}

	logger := New(level, format, w)
	slog.SetDefault(logger)
	return logger, err
}
