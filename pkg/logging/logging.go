// Package logging builds the slog loggers used by the server adapter and
// CLI. The decision engine itself never logs; it has no I/O.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler for a new logger.
type Options struct {
	// Level is the minimum level, parsed from "debug", "info", "warn",
	// or "error". Unrecognized values mean info.
	Level string

	// JSON selects the JSON handler over the text handler.
	JSON bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger from the given options.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, hopts))
	}
	return slog.New(slog.NewTextHandler(out, hopts))
}

// Nop returns a logger that discards everything. Use it where a logger is
// required but output is unwanted, e.g. in tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
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
