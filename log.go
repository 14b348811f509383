package vkinit

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text logger writing to w (stderr when nil) at the named level.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
