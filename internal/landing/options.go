package landing

import (
	"log/slog"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLogHandler sets a custom log handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(o *Orchestrator) {
		o.logger = slog.New(handler)
	}
}

// WithSink routes the pipeline's structured events to a shared sink.
func WithSink(sink *logging.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithDrainTimeout overrides the default per-subsystem drain window.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.drainTimeout = d
	}
}

// WithKindDrainTimeout overrides the drain window for one subsystem.
func WithKindDrainTimeout(kind subsystem.Kind, d time.Duration) Option {
	return func(o *Orchestrator) {
		o.kindTimeouts[kind] = d
	}
}

// WithConnectionCounter registers a live-connection gauge consulted by the
// landing readiness check for that subsystem.
func WithConnectionCounter(kind subsystem.Kind, counter func() int64) Option {
	return func(o *Orchestrator) {
		o.connCounters[kind] = counter
	}
}
