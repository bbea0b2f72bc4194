package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/diogo/fitbot/internal/config"
)

// newLogger returns a text logger on w; debug records only show when verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLogFile opens the append-only log used while the TUI owns the terminal.
// The returned close func is always safe to call.
func openLogFile(verbose bool) (*slog.Logger, func(), error) {
	if _, err := config.EnsureConfigDir(); err != nil {
		return newLogger(nil, false), func() {}, err
	}
	path, err := config.GetLogPath()
	if err != nil {
		return newLogger(nil, false), func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return newLogger(nil, false), func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(f, verbose), func() { _ = f.Close() }, nil
}
