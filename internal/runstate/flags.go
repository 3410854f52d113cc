// Package runstate holds the process-wide run-state flags. The flags are
// plain atomics: the coordinator (or a signal handler) is the only writer,
// subsystem worker loops poll them as volatile hints.
package runstate

import (
	"sync/atomic"

	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// Phase is the coarse process phase. Exactly one of starting, running,
// stopping is set at any time.
type Phase int32

const (
	PhaseInert Phase = iota
	PhaseStarting
	PhaseRunning
	PhaseStopping
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	default:
		return "inert"
	}
}

// Flags is the full run-state flag set: the process phase plus one shutdown
// flag per subsystem kind. The per-kind flags are pre-allocated so setting
// one from a signal handler never allocates.
type Flags struct {
	phase    atomic.Int32
	shutdown [subsystem.Count]atomic.Bool
}

// New returns a flag set in the inert phase with all shutdown flags clear.
func New() *Flags {
	return &Flags{}
}

// SetStarting marks the process as starting, clearing running/stopping.
func (f *Flags) SetStarting() { f.phase.Store(int32(PhaseStarting)) }

// SetRunning marks the process as running.
func (f *Flags) SetRunning() { f.phase.Store(int32(PhaseRunning)) }

// SetStopping marks the process as stopping. Safe to call from a signal
// handler goroutine.
func (f *Flags) SetStopping() { f.phase.Store(int32(PhaseStopping)) }

// Phase returns the current process phase.
func (f *Flags) Phase() Phase { return Phase(f.phase.Load()) }

func (f *Flags) Starting() bool { return f.Phase() == PhaseStarting }
func (f *Flags) Running() bool  { return f.Phase() == PhaseRunning }
func (f *Flags) Stopping() bool { return f.Phase() == PhaseStopping }

// RequestShutdown sets the per-subsystem shutdown flag. Worker loops owned
// by that subsystem poll the flag and exit cooperatively.
func (f *Flags) RequestShutdown(k subsystem.Kind) {
	if k.Valid() {
		f.shutdown[k].Store(true)
	}
}

// ShutdownRequested reports whether the per-subsystem shutdown flag is set.
func (f *Flags) ShutdownRequested(k subsystem.Kind) bool {
	return k.Valid() && f.shutdown[k].Load()
}

// ShutdownFlag exposes the raw flag so it can be handed to a subsystem at
// registration time. Returns nil for an invalid kind.
func (f *Flags) ShutdownFlag(k subsystem.Kind) *atomic.Bool {
	if !k.Valid() {
		return nil
	}
	return &f.shutdown[k]
}

// ClearShutdown resets a per-subsystem flag. Registration does not call it.
func (f *Flags) ClearShutdown(k subsystem.Kind) {
	if k.Valid() {
		f.shutdown[k].Store(false)
	}
}
