// Package logging configures the process logger and bridges reconciliation
// progress events into it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelOff silences every record when used as the handler level.
const LevelOff = slog.LevelError + 4

// Options configures Setup.
type Options struct {
	// Level is the minimum level written.
	Level slog.Level

	// File, when set, receives a copy of every record. It is opened for
	// append and created if missing, so successive runs accumulate.
	File string

	// Stderr is the console destination; nil means os.Stderr.
	Stderr io.Writer
}

// Setup builds a text logger writing to the console and, optionally, to an
// append-only log file. The returned close function releases the file and
// is safe to call when no file was opened.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	if opts.Stderr != nil {
		w = opts.Stderr
	}
	closeFn := func() error { return nil }

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file %q: %w", opts.File, err)
		}
		w = io.MultiWriter(w, f)
		closeFn = f.Close
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(handler), closeFn, nil
}

// ParseLevel maps a level name to a slog level. ok is false for empty or
// unknown input, in which case the returned level is slog.LevelInfo.
func ParseLevel(raw string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return slog.LevelInfo, false
	case "debug", "trace":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "off", "disabled", "none":
		return LevelOff, true
	default:
		return slog.LevelInfo, false
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
