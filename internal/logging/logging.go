// Package logging builds per-component structured loggers. Unlike the
// teacher's global dot-imported logger, there is no package-level
// mutable state here: each component constructs its own *log.Logger at
// wiring time and holds it as a field, per spec §9's warning against
// global mutable watcher state.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Level mirrors the handful of levels the pipeline ever logs at.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// New creates a logger for one component (e.g. "reader.kvstore",
// "orchestrator", "aging"), writing to w at the given level.
func New(w io.Writer, component string, level Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
		Prefix:          component,
	})
	switch level {
	case LevelDebug:
		l.SetLevel(log.DebugLevel)
	case LevelWarn:
		l.SetLevel(log.WarnLevel)
	case LevelError:
		l.SetLevel(log.ErrorLevel)
	default:
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// NewStderr is a convenience wrapper for the common case of logging to
// stderr at the given level.
func NewStderr(component string, level Level) *log.Logger {
	return New(os.Stderr, component, level)
}
