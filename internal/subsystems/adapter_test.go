package subsystems

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/threads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunnable is a minimal supervisor.Runnable with optional state
// reporting.
type fakeRunnable struct {
	running  atomic.Bool
	stopOnce atomic.Bool
	stopCh   chan struct{}
	bootFor  time.Duration
}

func newFakeRunnable() *fakeRunnable {
	return &fakeRunnable{stopCh: make(chan struct{})}
}

func (f *fakeRunnable) String() string { return "fake.Runnable" }

func (f *fakeRunnable) Run(ctx context.Context) error {
	if f.bootFor > 0 {
		time.Sleep(f.bootFor)
	}
	f.running.Store(true)
	defer f.running.Store(false)
	select {
	case <-ctx.Done():
	case <-f.stopCh:
	}
	return nil
}

func (f *fakeRunnable) Stop() {
	if f.stopOnce.CompareAndSwap(false, true) {
		close(f.stopCh)
	}
}

func (f *fakeRunnable) GetState() string {
	if f.running.Load() {
		return "Running"
	}
	return "New"
}

func (f *fakeRunnable) GetStateChan(ctx context.Context) <-chan string {
	ch := make(chan string, 1)
	ch <- f.GetState()
	return ch
}

func (f *fakeRunnable) IsRunning() bool { return f.running.Load() }

func TestAdapterInitStartsTrackedWorker(t *testing.T) {
	runnable := newFakeRunnable()
	tracker := threads.NewTracker()
	adapter := NewAdapter(runnable, tracker, WithContext(t.Context()))

	require.NoError(t, adapter.Init())
	assert.True(t, runnable.IsRunning())
	assert.Equal(t, int64(1), tracker.Count())

	adapter.Stop()
	assert.Eventually(t, func() bool {
		return tracker.Count() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestAdapterInitWaitsForReadiness(t *testing.T) {
	runnable := newFakeRunnable()
	runnable.bootFor = 50 * time.Millisecond
	adapter := NewAdapter(runnable, threads.NewTracker(), WithContext(t.Context()))

	require.NoError(t, adapter.Init())
	assert.True(t, runnable.IsRunning())
	adapter.Stop()
}

func TestAdapterInitTimesOut(t *testing.T) {
	runnable := newFakeRunnable()
	runnable.bootFor = time.Second
	tracker := threads.NewTracker()
	adapter := NewAdapter(runnable, tracker,
		WithContext(t.Context()),
		WithReadyTimeout(50*time.Millisecond),
	)

	err := adapter.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")

	// The failed worker still retires through the canceled context.
	assert.Eventually(t, func() bool {
		return tracker.Count() == 0
	}, 3*time.Second, 10*time.Millisecond)
}

func TestAdapterStopIdempotent(t *testing.T) {
	runnable := newFakeRunnable()
	adapter := NewAdapter(runnable, threads.NewTracker(), WithContext(t.Context()))
	require.NoError(t, adapter.Init())

	adapter.Stop()
	adapter.Stop()
}
