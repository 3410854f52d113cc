package landing

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/runstate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/atlanticdynamic/hydrogen/internal/testutil"
	"github.com/atlanticdynamic/hydrogen/internal/threads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type landingHarness struct {
	t     *testing.T
	flags *runstate.Flags
	reg   *registry.Registry
	buf   *testutil.LogBuffer
	sink  *logging.Sink
}

func newLandingHarness(t *testing.T) *landingHarness {
	t.Helper()
	buf := testutil.NewLogBuffer()
	handler := slog.NewTextHandler(buf, nil)
	flags := runstate.New()
	flags.SetRunning()
	return &landingHarness{
		t:     t,
		flags: flags,
		reg:   registry.New(registry.WithLogHandler(handler)),
		buf:   buf,
		sink:  logging.NewSink(handler),
	}
}

func (h *landingHarness) orchestrator(opts ...Option) *Orchestrator {
	opts = append(opts, WithSink(h.sink))
	return New(h.flags, h.reg, opts...)
}

// registerRunning registers a subsystem and walks it to Running.
func (h *landingHarness) registerRunning(kind subsystem.Kind, opts ...registry.RegisterOption) int {
	h.t.Helper()
	id := h.reg.Register(kind.String(), kind, opts...)
	require.NoError(h.t, h.reg.SetState(id, finitestate.StatusStarting))
	require.NoError(h.t, h.reg.SetState(id, finitestate.StatusRunning))
	return id
}

func TestLandingStopsEverything(t *testing.T) {
	h := newLandingHarness(t)
	h.registerRunning(subsystem.Logging)
	h.registerRunning(subsystem.Network)

	result := h.orchestrator().Run(t.Context())

	assert.True(t, result.Clean())
	assert.NoError(t, result.Err)
	assert.True(t, h.flags.Stopping())

	for _, view := range h.reg.Snapshot() {
		assert.Equal(t, finitestate.StatusStopped, view.State, view.Name)
	}
}

func TestLandingStopOrderIsReverse(t *testing.T) {
	h := newLandingHarness(t)

	var stops []string
	stopFn := func(name string) registry.StopFunc {
		return func() { stops = append(stops, name) }
	}
	h.registerRunning(subsystem.Logging, registry.WithStopFunc(stopFn("Logging")))
	h.registerRunning(subsystem.Network, registry.WithStopFunc(stopFn("Network")))
	h.registerRunning(subsystem.WebServer, registry.WithStopFunc(stopFn("WebServer")))

	h.orchestrator().Run(t.Context())

	// Dependents stop before their providers: reverse canonical order.
	assert.Equal(t, []string{"WebServer", "Network", "Logging"}, stops)
}

func TestDrainWaitsForWorkers(t *testing.T) {
	h := newLandingHarness(t)

	tracker := threads.NewTracker()
	var flag atomic.Bool
	// Worker exits cooperatively once the shutdown flag is set.
	tracker.Go(func() {
		for !flag.Load() {
			time.Sleep(10 * time.Millisecond)
		}
	})
	id := h.registerRunning(subsystem.WebSocket,
		registry.WithThreads(tracker),
		registry.WithShutdownFlag(&flag),
	)

	result := h.orchestrator().Run(t.Context())

	assert.True(t, result.Clean())
	assert.Contains(t, result.Stopped, subsystem.WebSocket)
	assert.Equal(t, finitestate.StatusStopped, h.reg.GetState(id))
	assert.Equal(t, int64(0), tracker.Count())
}

func TestDrainTimeoutMarksError(t *testing.T) {
	h := newLandingHarness(t)

	stuck := threads.NewTracker()
	stuck.Add(1) // never retires
	id := h.registerRunning(subsystem.PrintQueue, registry.WithThreads(stuck))
	h.registerRunning(subsystem.Logging)

	result := h.orchestrator(
		WithKindDrainTimeout(subsystem.PrintQueue, 100*time.Millisecond),
	).Run(t.Context())

	assert.Equal(t, finitestate.StatusError, h.reg.GetState(id))
	assert.Contains(t, result.Errored, subsystem.PrintQueue)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, ErrDrainTimeout)

	// The stuck subsystem does not prevent the rest from landing.
	assert.Contains(t, result.Stopped, subsystem.Logging)
	assert.True(t, result.Clean())
}

func TestStopCallbackRunsEvenOnError(t *testing.T) {
	h := newLandingHarness(t)

	stuck := threads.NewTracker()
	stuck.Add(1)
	stopped := false
	h.registerRunning(subsystem.PrintQueue,
		registry.WithThreads(stuck),
		registry.WithStopFunc(func() { stopped = true }),
	)

	h.orchestrator(
		WithKindDrainTimeout(subsystem.PrintQueue, 50*time.Millisecond),
	).Run(t.Context())

	assert.True(t, stopped)
}

func TestConnectionCounterGate(t *testing.T) {
	h := newLandingHarness(t)
	h.registerRunning(subsystem.WebSocket)

	var conns atomic.Int64
	conns.Store(3)
	// Connections drop to zero shortly after landing starts.
	go func() {
		time.Sleep(150 * time.Millisecond)
		conns.Store(0)
	}()

	result := h.orchestrator(
		WithConnectionCounter(subsystem.WebSocket, conns.Load),
	).Run(t.Context())

	assert.True(t, result.Clean())
	rec := result.Records[subsystem.WebSocket]
	require.NotNil(t, rec)
	found := false
	for _, line := range rec.Messages() {
		if line == "Go:      Active Connections (none)" {
			found = true
		}
	}
	assert.True(t, found, rec.Messages())
}

func TestConnectionCounterBoundedWait(t *testing.T) {
	h := newLandingHarness(t)
	h.registerRunning(subsystem.WebSocket)

	start := time.Now()
	result := h.orchestrator(
		WithConnectionCounter(subsystem.WebSocket, func() int64 { return 7 }),
	).Run(t.Context())

	// The wait is bounded at 40 x 50 ms; landing still reports Go.
	assert.Less(t, time.Since(start), 5*time.Second)
	rec := result.Records[subsystem.WebSocket]
	require.NotNil(t, rec)
	assert.True(t, rec.Ready)
}

func TestLandingSetsShutdownFlags(t *testing.T) {
	h := newLandingHarness(t)
	h.registerRunning(subsystem.Network)

	h.orchestrator().Run(t.Context())
	assert.True(t, h.flags.ShutdownRequested(subsystem.Network))
}

func TestLandingSkipsInactiveSubsystems(t *testing.T) {
	h := newLandingHarness(t)
	id := h.reg.Register(subsystem.Database.String(), subsystem.Database)

	result := h.orchestrator().Run(t.Context())

	// Never-started subsystems stay Inactive; the registry itself stops.
	assert.Equal(t, finitestate.StatusInactive, h.reg.GetState(id))
	assert.True(t, result.Clean())
}

func TestReviewEmitsCounts(t *testing.T) {
	h := newLandingHarness(t)
	h.registerRunning(subsystem.Logging)

	h.orchestrator().Run(t.Context())

	out := h.buf.String()
	assert.Contains(t, out, "LANDING READINESS")
	assert.Contains(t, out, "Stopped: 2")
	assert.Contains(t, out, "Errored: 0")
}
