// Package logging wraps slog.Logger with container-specific helpers so that
// every container logs with consistent field names.
package logging

import (
	"log/slog"
)

// Logger wraps slog.Logger with container-specific context.
type Logger struct {
	*slog.Logger
}

// New wraps l. A nil l yields a logger that discards everything.
func New(l *slog.Logger) *Logger {
	if l == nil {
		return Noop()
	}
	return &Logger{Logger: l}
}

// Noop creates a Logger that discards all log output.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithContainer tags the logger with the container kind ("vector", "bitset").
func (l *Logger) WithContainer(kind string) *Logger {
	return &Logger{Logger: l.Logger.With("container", kind)}
}

// WithStride adds the element stride field to the logger.
func (l *Logger) WithStride(stride int) *Logger {
	return &Logger{Logger: l.Logger.With("stride", stride)}
}

// LogRealloc logs a change of backing allocation.
func (l *Logger) LogRealloc(oldCap, newCap, bytes int, err error) {
	if err != nil {
		l.Error("reallocation failed",
			"old_cap", oldCap,
			"new_cap", newCap,
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.Debug("reallocated",
		"old_cap", oldCap,
		"new_cap", newCap,
		"bytes", bytes,
	)
}

// LogAlloc logs a one-shot allocation of fixed-size storage.
func (l *Logger) LogAlloc(bytes int, err error) {
	if err != nil {
		l.Error("allocation failed",
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.Debug("allocated", "bytes", bytes)
}

// LogFree logs the release of a backing allocation.
func (l *Logger) LogFree(bytes int, err error) {
	if err != nil {
		l.Error("free failed",
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.Debug("freed", "bytes", bytes)
}
