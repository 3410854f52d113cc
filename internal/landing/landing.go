// Package landing drives the reverse pipeline: landing readiness in
// reverse canonical order, cooperative draining of running subsystems,
// stop callbacks, and the closing REVIEW. A subsystem that fails to drain
// is marked Error and the pipeline proceeds; teardown never hangs the
// process.
package landing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/readiness"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/runstate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/gofrs/uuid/v5"
	"github.com/hashicorp/go-multierror"
)

// Category is the event category the pipeline logs under.
const Category = "Landing"

// DefaultDrainTimeout is the window each subsystem gets to retire its
// workers before being marked Error.
const DefaultDrainTimeout = 2 * time.Second

// drainPollInterval is how often the drain loop samples thread counts.
const drainPollInterval = 50 * time.Millisecond

// connWaitAttempts and connWaitInterval bound the landing-readiness wait
// for live connections to drop (40 x 50 ms = 2 s).
const (
	connWaitAttempts = 40
	connWaitInterval = 50 * time.Millisecond
)

// ErrDrainTimeout marks a subsystem whose workers did not exit in time.
var ErrDrainTimeout = errors.New("drain timeout")

// Result summarizes one landing pass.
type Result struct {
	PassID  uuid.UUID
	Records map[subsystem.Kind]*readiness.Record
	Stopped []subsystem.Kind
	Errored []subsystem.Kind
	// Err aggregates drain failures; landing still completes.
	Err error
}

// Clean reports whether landing completed with at least one subsystem
// reaching Stopped, the condition for a zero exit code.
func (r *Result) Clean() bool {
	return len(r.Stopped) > 0
}

// Orchestrator runs the landing pipeline on the coordinator goroutine.
type Orchestrator struct {
	flags        *runstate.Flags
	reg          *registry.Registry
	sink         *logging.Sink
	logger       *slog.Logger
	drainTimeout time.Duration
	kindTimeouts map[subsystem.Kind]time.Duration
	connCounters map[subsystem.Kind]func() int64
}

// New builds a landing orchestrator over the registry and run-state flags.
func New(flags *runstate.Flags, reg *registry.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		flags:        flags,
		reg:          reg,
		logger:       slog.Default().WithGroup("landing"),
		drainTimeout: DefaultDrainTimeout,
		kindTimeouts: make(map[subsystem.Kind]time.Duration),
		connCounters: make(map[subsystem.Kind]func() int64),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sink == nil {
		o.sink = logging.NewSink(o.logger.Handler())
	}
	return o
}

// Run executes the landing phases. The context bounds the total wait; on
// cancellation remaining subsystems are stopped without draining.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	result := &Result{
		PassID:  uuid.Must(uuid.NewV6()),
		Records: make(map[subsystem.Kind]*readiness.Record, subsystem.Count),
	}

	o.flags.SetStopping()

	views := o.landingViews()
	o.readinessPhase(result, views)
	o.drainPhase(ctx, result, views)
	o.stopPhase(views)
	o.reviewPhase(result)
	return result
}

// landingViews returns registered subsystems in reverse canonical order,
// the registry last.
func (o *Orchestrator) landingViews() []registry.SubsystemView {
	snapshot := o.reg.Snapshot()
	byName := make(map[string]registry.SubsystemView, len(snapshot))
	for _, view := range snapshot {
		byName[view.Name] = view
	}
	views := make([]registry.SubsystemView, 0, len(snapshot))
	for _, kind := range subsystem.LandingOrder() {
		if view, ok := byName[kind.String()]; ok {
			views = append(views, view)
		}
	}
	return views
}

// readinessPhase asks each registered subsystem, in reverse order, whether
// it is safe to release its resources. Most answer unconditionally Go;
// subsystems with a registered connection counter first wait, bounded, for
// live connections to drop to zero.
func (o *Orchestrator) readinessPhase(result *Result, views []registry.SubsystemView) {
	group := o.sink.Group(Category)
	group.State("LANDING READINESS")
	group.State("Pass " + result.PassID.String())

	for _, view := range views {
		rec := readiness.NewRecord(view.Name)
		if counter, ok := o.connCounters[view.Kind]; ok {
			remaining := o.awaitConnectionsClosed(counter)
			if remaining == 0 {
				rec.Go("Active Connections (none)")
			} else {
				rec.Go("Active Connections (%d remain after wait)", remaining)
			}
		}
		rec.Go("Resources (safe to release)")
		rec.FinalizeLanding(view.Kind.LongName())
		result.Records[view.Kind] = rec

		for _, line := range rec.Messages() {
			group.State(line)
		}
	}
	group.Close()
}

// awaitConnectionsClosed polls the counter until it reaches zero or the
// bounded wait elapses, returning the last observed count.
func (o *Orchestrator) awaitConnectionsClosed(counter func() int64) int64 {
	var remaining int64
	for attempt := 0; attempt < connWaitAttempts; attempt++ {
		remaining = counter()
		if remaining == 0 {
			return 0
		}
		time.Sleep(connWaitInterval)
	}
	return remaining
}

// drainPhase retires each running subsystem: Stopping, shutdown flag set,
// then a bounded poll until its thread count reaches zero. Timeout marks
// the subsystem Error and the pipeline proceeds.
func (o *Orchestrator) drainPhase(ctx context.Context, result *Result, views []registry.SubsystemView) {
	for _, view := range views {
		if o.reg.GetState(view.ID) != finitestate.StatusRunning {
			continue
		}
		if err := o.reg.SetState(view.ID, finitestate.StatusStopping); err != nil {
			o.logger.Error("Failed to mark subsystem stopping",
				"subsystem", view.Name, "error", err)
			continue
		}

		o.flags.RequestShutdown(view.Kind)
		if flag := o.reg.ShutdownFlag(view.ID); flag != nil {
			flag.Store(true)
		}

		if o.awaitDrained(ctx, view) {
			if err := o.reg.SetState(view.ID, finitestate.StatusStopped); err != nil {
				o.logger.Error("Failed to mark subsystem stopped",
					"subsystem", view.Name, "error", err)
				continue
			}
			result.Stopped = append(result.Stopped, view.Kind)
			o.sink.Emit(view.Name, logging.SeverityState, "Subsystem stopped")
			continue
		}

		if err := o.reg.SetState(view.ID, finitestate.StatusError); err != nil {
			o.logger.Error("Failed to mark subsystem errored",
				"subsystem", view.Name, "error", err)
		}
		result.Errored = append(result.Errored, view.Kind)
		result.Err = multierror.Append(result.Err,
			fmt.Errorf("%w: %s", ErrDrainTimeout, view.Name))
		o.sink.Emit(view.Name, logging.SeverityAlert,
			"Drain timeout, workers still live")
	}
}

// awaitDrained polls the subsystem's thread count until zero, the timeout
// elapses, or the context is canceled. Subsystems without a tracker drain
// immediately.
func (o *Orchestrator) awaitDrained(ctx context.Context, view registry.SubsystemView) bool {
	tracker := o.reg.Tracker(view.ID)
	if tracker == nil {
		return true
	}

	timeout := o.drainTimeout
	if d, ok := o.kindTimeouts[view.Kind]; ok {
		timeout = d
	}
	deadline := time.Now().Add(timeout)
	for {
		if tracker.Count() == 0 {
			return true
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			return false
		}
		time.Sleep(drainPollInterval)
	}
}

// stopPhase invokes each subsystem's stop callback in reverse order. Stop
// callbacks are best-effort and idempotent; they run even for subsystems
// that errored.
func (o *Orchestrator) stopPhase(views []registry.SubsystemView) {
	for _, view := range views {
		_, stopFn := o.reg.Callbacks(view.ID)
		if stopFn == nil {
			continue
		}
		stopFn()
		o.logger.Debug("Stop callback invoked", "subsystem", view.Name)
	}
}

// reviewPhase emits the final counts and per-subsystem states.
func (o *Orchestrator) reviewPhase(result *Result) {
	group := o.sink.Group(Category)
	group.State("REVIEW")
	group.State("Stopped: " + strconv.Itoa(len(result.Stopped)))
	group.State("Errored: " + strconv.Itoa(len(result.Errored)))

	for _, kind := range subsystem.LandingOrder() {
		id, ok := o.reg.GetID(kind.String())
		if !ok {
			continue
		}
		state := o.reg.GetState(id)
		line := state + ": " + kind.String()
		if state == finitestate.StatusError {
			group.Error(line)
		} else {
			group.State(line)
		}
	}
	group.Close()
}
