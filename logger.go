package main

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a structured JSON logger on stdout. Debug builds also
// record the call site.
func NewLogger(level slog.Level) *slog.Logger {
	return newLogger(os.Stdout, level)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(h).With("app", "shotgroup")
}
