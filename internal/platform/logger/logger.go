package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON to stdout so log collectors can parse
// fields without a format contract per environment.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
