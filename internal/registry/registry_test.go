package registry

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/atlanticdynamic/hydrogen/internal/threads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersItselfAsIDZero(t *testing.T) {
	reg := New()

	id, ok := reg.GetID(Name)
	require.True(t, ok)
	assert.Equal(t, 0, id)
	assert.Equal(t, finitestate.StatusRunning, reg.GetState(0))
	assert.True(t, reg.IsRunning(Name))
}

func TestRegisterAssignsDenseIDs(t *testing.T) {
	reg := New()

	logging := reg.Register("Logging", subsystem.Logging)
	network := reg.Register("Network", subsystem.Network)

	assert.Equal(t, 1, logging)
	assert.Equal(t, 2, network)
	assert.Equal(t, 3, reg.Count())
}

func TestRegisterIdempotentOnName(t *testing.T) {
	reg := New()

	first := reg.Register("Logging", subsystem.Logging)
	tracker := threads.NewTracker()
	second := reg.Register("Logging", subsystem.Logging, WithThreads(tracker))

	assert.Equal(t, first, second)
	assert.Equal(t, 2, reg.Count())
	assert.Same(t, tracker, reg.Tracker(first))
}

func TestRegisterResetsTerminalState(t *testing.T) {
	reg := New()
	id := reg.Register("Logging", subsystem.Logging)

	require.NoError(t, reg.SetState(id, finitestate.StatusStarting))
	require.NoError(t, reg.SetState(id, finitestate.StatusError))

	// Terminal until explicit re-registration.
	assert.Error(t, reg.SetState(id, finitestate.StatusStarting))

	again := reg.Register("Logging", subsystem.Logging)
	assert.Equal(t, id, again)
	assert.Equal(t, finitestate.StatusInactive, reg.GetState(id))
	assert.NoError(t, reg.SetState(id, finitestate.StatusStarting))
}

func TestSetStateRejectsIllegalTransitions(t *testing.T) {
	reg := New()
	id := reg.Register("Network", subsystem.Network)

	// Skipping Starting on the way up is illegal.
	err := reg.SetState(id, finitestate.StatusRunning)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	require.NoError(t, reg.SetState(id, finitestate.StatusStarting))
	require.NoError(t, reg.SetState(id, finitestate.StatusRunning))
	require.NoError(t, reg.SetState(id, finitestate.StatusStopping))
	require.NoError(t, reg.SetState(id, finitestate.StatusStopped))

	// Stopped is terminal.
	assert.Error(t, reg.SetState(id, finitestate.StatusStarting))
}

func TestSetStateUnknownID(t *testing.T) {
	reg := New()
	err := reg.SetState(42, finitestate.StatusStarting)
	assert.ErrorIs(t, err, ErrUnknownSubsystem)
}

func TestStateChangedAtMonotonic(t *testing.T) {
	reg := New()
	id := reg.Register("Network", subsystem.Network)

	t0 := reg.StateChangedAt(id)
	require.NoError(t, reg.SetState(id, finitestate.StatusStarting))
	t1 := reg.StateChangedAt(id)
	assert.False(t, t1.Before(t0))

	// Same-state set is a no-op and must not bump the timestamp.
	require.NoError(t, reg.SetState(id, finitestate.StatusStarting))
	assert.Equal(t, t1, reg.StateChangedAt(id))

	time.Sleep(time.Millisecond)
	require.NoError(t, reg.SetState(id, finitestate.StatusRunning))
	assert.True(t, reg.StateChangedAt(id).After(t1))
}

func TestAddDependencyLazyResolution(t *testing.T) {
	reg := New()
	web := reg.Register("WebServer", subsystem.WebServer)

	// Provider named before it is registered.
	assert.Equal(t, DependencyMissing, reg.AddDependency(web, "Network"))

	views := reg.Snapshot()
	require.Len(t, views[web].Dependencies, 1)
	assert.False(t, views[web].Dependencies[0].Registered)

	// Registration resolves the stored edge on the next query.
	network := reg.Register("Network", subsystem.Network)
	views = reg.Snapshot()
	require.Len(t, views[web].Dependencies, 1)
	assert.True(t, views[web].Dependencies[0].Registered)
	assert.Equal(t, network, views[web].Dependencies[0].ID)

	// Re-adding the resolved edge reports it recorded, without duplication.
	assert.Equal(t, DependencyRecorded, reg.AddDependency(web, "Network"))
	views = reg.Snapshot()
	assert.Len(t, views[web].Dependencies, 1)
}

func TestAddDependencyUnknownSubsystem(t *testing.T) {
	reg := New()
	assert.Equal(t, DependencyMissing, reg.AddDependency(99, "Network"))
}

func TestSnapshotOrderedByID(t *testing.T) {
	reg := New()
	reg.Register("Logging", subsystem.Logging)
	reg.Register("Network", subsystem.Network)
	reg.Register("WebServer", subsystem.WebServer)

	views := reg.Snapshot()
	require.Len(t, views, 4)
	for i, view := range views {
		assert.Equal(t, i, view.ID)
	}
	assert.Equal(t, Name, views[0].Name)
}

func TestSnapshotCarriesThreadCountAndCallbacks(t *testing.T) {
	reg := New()
	tracker := threads.NewTracker()
	tracker.Add(3)
	var flag atomic.Bool

	id := reg.Register("WebSocket", subsystem.WebSocket,
		WithThreads(tracker),
		WithShutdownFlag(&flag),
		WithInitFunc(func() error { return nil }),
		WithStopFunc(func() {}),
	)

	views := reg.Snapshot()
	assert.Equal(t, int64(3), views[id].ThreadCount)
	assert.True(t, views[id].HasInit)
	assert.True(t, views[id].HasStop)

	initFn, stopFn := reg.Callbacks(id)
	assert.NotNil(t, initFn)
	assert.NotNil(t, stopFn)
	assert.Same(t, &flag, reg.ShutdownFlag(id))
}

func TestGetStateUnknownID(t *testing.T) {
	reg := New()
	assert.Empty(t, reg.GetState(-1))
	assert.Empty(t, reg.GetState(17))
}

func TestIsRunningUnknownName(t *testing.T) {
	reg := New()
	assert.False(t, reg.IsRunning("nope"))
}
