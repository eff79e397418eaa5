// Package logger builds the zerolog loggers used across the gateway.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewWithWriter creates a logger writing to w at the given level. Unknown
// levels fall back to info. When jsonOutput is false a human-readable
// console writer is used.
func NewWithWriter(w io.Writer, level string, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name into a zerolog level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
