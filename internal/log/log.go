package log

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// NewHandler returns a terminal-friendly slog handler with the given
// prefix.
func NewHandler(name string) slog.Handler {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
	})
}

func New(name string) *slog.Logger {
	return slog.New(NewHandler(name))
}
