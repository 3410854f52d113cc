// Package finitestate provides the per-subsystem lifecycle state machine.
// A subsystem climbs Inactive -> Starting -> Running, descends Running ->
// Stopping -> Stopped, and can fall to Error from Starting, Running, or
// Stopping.
// Stopped and Error are terminal until the subsystem is re-registered.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

// ErrInvalidStateTransition is re-exported for callers that need to match it.
var ErrInvalidStateTransition = fsm.ErrInvalidStateTransition

// Lifecycle state constants.
const (
	StatusInactive = "Inactive"
	StatusStarting = "Starting"
	StatusRunning  = "Running"
	StatusStopping = "Stopping"
	StatusStopped  = "Stopped"
	StatusError    = "Error"
)

// SubsystemTransitions defines the legal lifecycle transitions. Any jump
// that skips Starting on the way up, or that leaves Stopped or Error, is
// rejected by the machine.
var SubsystemTransitions = map[string][]string{
	StatusInactive: {StatusStarting},
	StatusStarting: {StatusRunning, StatusError},
	StatusRunning:  {StatusStopping, StatusError},
	StatusStopping: {StatusStopped, StatusError},
	StatusStopped:  {},
	StatusError:    {},
}

// Machine is the interface the registry drives. The abstraction mirrors the
// underlying fsm.Machine and simplifies testing.
type Machine interface {
	Transition(state string) error
	TransitionBool(state string) bool
	TransitionIfCurrentState(currentState, newState string) error
	SetState(state string) error
	GetState() string
	GetStateChan(ctx context.Context) <-chan string
}

// SubsystemFSM embeds fsm.Machine with a sync broadcast channel so state
// updates are delivered during shutdown.
type SubsystemFSM struct {
	*fsm.Machine
}

func (m *SubsystemFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates a subsystem lifecycle machine in the Inactive state.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusInactive, SubsystemTransitions)
	if err != nil {
		return nil, err
	}
	return &SubsystemFSM{Machine: machine}, nil
}

// Terminal reports whether a state can only be left by re-registration.
func Terminal(state string) bool {
	return state == StatusStopped || state == StatusError
}
