package logging

import (
	"io"
	"log/slog"
	"os"
)

// New logs text lines to stderr; stdout carries command output.
func New(level slog.Level) *slog.Logger {
	return NewTo(os.Stderr, level)
}

func NewTo(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func NewNop() *slog.Logger {
	return NewTo(io.Discard, slog.LevelError)
}
