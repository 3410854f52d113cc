// Package finitestate wraps the standard runnable lifecycle states used by
// the subsystem bodies: New -> Booting -> Running -> Stopping -> Stopped,
// with Error reachable from any active state.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew      = fsm.StatusNew
	StatusBooting  = fsm.StatusBooting
	StatusRunning  = fsm.StatusRunning
	StatusStopping = fsm.StatusStopping
	StatusStopped  = fsm.StatusStopped
	StatusError    = fsm.StatusError
	StatusUnknown  = fsm.StatusUnknown
)

// TypicalTransitions is the standard transition set for runnable bodies.
var TypicalTransitions = fsm.TypicalTransitions

// Machine is the lifecycle state machine interface the runners drive.
type Machine interface {
	Transition(state string) error
	TransitionBool(state string) bool
	TransitionIfCurrentState(currentState, newState string) error
	SetState(state string) error
	GetState() string
	GetStateChan(ctx context.Context) <-chan string
}

// RunnerFSM embeds fsm.Machine with a sync broadcast channel so state
// updates are delivered during shutdown.
type RunnerFSM struct {
	*fsm.Machine
}

func (m *RunnerFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates a runner lifecycle machine in the New state.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &RunnerFSM{Machine: machine}, nil
}
