// Package logger adapts charmbracelet/log to the ports.Logger contract.
package logger

import (
	"os"

	charm "github.com/charmbracelet/log"
)

// CharmLogger writes structured, leveled output to stderr so command output
// on stdout stays pipeable.
type CharmLogger struct {
	inner *charm.Logger
}

// New creates a CharmLogger. Verbose mode lowers the level to Debug.
func New(verbose bool) *CharmLogger {
	inner := charm.NewWithOptions(os.Stderr, charm.Options{
		ReportTimestamp: false,
		Level:           charm.WarnLevel,
	})
	if verbose {
		inner.SetLevel(charm.DebugLevel)
	}
	return &CharmLogger{inner: inner}
}

func (l *CharmLogger) Debug(msg string, fields map[string]interface{}) {
	l.inner.Debug(msg, flatten(fields)...)
}

func (l *CharmLogger) Info(msg string, fields map[string]interface{}) {
	l.inner.Info(msg, flatten(fields)...)
}

func (l *CharmLogger) Warn(msg string, fields map[string]interface{}) {
	l.inner.Warn(msg, flatten(fields)...)
}

func (l *CharmLogger) Error(msg string, err error, fields map[string]interface{}) {
	args := flatten(fields)
	if err != nil {
		args = append(args, "error", err)
	}
	l.inner.Error(msg, args...)
}

func flatten(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	return args
}
