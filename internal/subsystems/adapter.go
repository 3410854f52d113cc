// Package subsystems bridges supervisor.Runnable bodies into the registry's
// callback contract. The adapter starts a runnable on a tracked goroutine
// from the init callback and requests its stop from the stop callback, so
// the coordinator never blocks on a subsystem's run loop.
package subsystems

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/threads"
	"github.com/robbyt/go-supervisor/supervisor"
)

// DefaultReadyTimeout bounds how long Init waits for a Stateable runnable
// to report Running.
const DefaultReadyTimeout = 5 * time.Second

// readyPollInterval is the poll cadence while waiting for readiness.
const readyPollInterval = 10 * time.Millisecond

// Adapter runs one supervisor.Runnable under a thread tracker and exposes
// registry-compatible Init and Stop callbacks.
type Adapter struct {
	runnable     supervisor.Runnable
	tracker      *threads.Tracker
	logger       *slog.Logger
	parentCtx    context.Context
	runCancel    context.CancelFunc
	readyTimeout time.Duration
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets a custom logger for the adapter.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithContext sets the parent context the runnable's Run receives.
func WithContext(ctx context.Context) AdapterOption {
	return func(a *Adapter) {
		a.parentCtx = ctx
	}
}

// WithReadyTimeout overrides the readiness wait window.
func WithReadyTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		a.readyTimeout = d
	}
}

// NewAdapter wraps a runnable and the tracker its worker goroutine counts
// against.
func NewAdapter(r supervisor.Runnable, tracker *threads.Tracker, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		runnable:     r,
		tracker:      tracker,
		logger:       slog.Default().WithGroup("subsystems.Adapter"),
		parentCtx:    context.Background(),
		readyTimeout: DefaultReadyTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init starts the runnable on a tracked goroutine and, when the runnable
// reports state, waits for it to reach Running. It returns promptly either
// way; long-running work stays on the worker goroutine.
func (a *Adapter) Init() error {
	ctx, cancel := context.WithCancel(a.parentCtx)
	a.runCancel = cancel

	a.tracker.Go(func() {
		if err := a.runnable.Run(ctx); err != nil {
			a.logger.Error("Runnable exited with error",
				"runnable", fmt.Sprint(a.runnable), "error", err)
		}
	})

	stateable, ok := a.runnable.(supervisor.Stateable)
	if !ok {
		return nil
	}

	deadline := time.Now().Add(a.readyTimeout)
	for !stateable.IsRunning() {
		if time.Now().After(deadline) {
			a.runnable.Stop()
			cancel()
			return fmt.Errorf("runnable %v not running after %s", a.runnable, a.readyTimeout)
		}
		time.Sleep(readyPollInterval)
	}
	return nil
}

// Stop requests the runnable's shutdown. Idempotent and best-effort; the
// worker goroutine retires on its own and the tracker count follows it.
func (a *Adapter) Stop() {
	a.runnable.Stop()
	if a.runCancel != nil {
		a.runCancel()
	}
}
