package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New builds the process-wide structured logger. Distribution failures are
// only ever reported through it, so it is wired in at startup rather than
// created ad hoc.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
}
