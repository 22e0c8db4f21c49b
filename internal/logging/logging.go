// Package logging builds the charmbracelet loggers used by the CLI, session and HTTP layers.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to w at level ("debug", "info", ...).
// An unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// ForComponent returns a child logger prefixed with the component name.
func ForComponent(base *log.Logger, component string) *log.Logger {
	l := base.With()
	l.SetPrefix(component)
	return l
}

// Discard is a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
