package bitset

import (
	"log/slog"

	"github.com/hupe1980/ralib/metrics"
)

type options struct {
	logger  *slog.Logger
	metrics metrics.Collector
}

// Option configures a Bitset.
type Option func(*options)

// WithLogger configures structured logging of allocations.
// If nil is passed, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics configures the metrics collector.
// If nil is passed, metrics.Noop is used.
func WithMetrics(c metrics.Collector) Option {
	return func(o *options) {
		if c == nil {
			c = metrics.Noop{}
		}
		o.metrics = c
	}
}
