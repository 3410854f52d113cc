package launch

import (
	"log/slog"

	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/netinfo"
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

// WithNet injects the interface enumerator used by the Network evaluator.
func WithNet(net netinfo.Enumerator) Option {
	return func(o *Orchestrator) {
		o.net = net
	}
}

// WithExecutablePath overrides the binary path the Payload evaluator scans.
func WithExecutablePath(path string) Option {
	return func(o *Orchestrator) {
		o.execPath = path
	}
}
