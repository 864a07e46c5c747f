package logging

import (
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
}

var StdoutLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

var NopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewStdoutLogger builds a text logger for the given level name ("debug", "info", "warn", "error").
// Unknown names fall back to info.
func NewStdoutLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
