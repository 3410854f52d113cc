// Package registry is the authoritative ownership and state store for every
// subsystem. It owns the name and id mappings and serializes all state
// transitions behind a single internal lock. The registry never fails a
// caller: lookups return sentinel values so callers can degrade gracefully.
package registry

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/atlanticdynamic/hydrogen/internal/threads"
)

// Name is the registry's own entry in itself, always id 0.
const Name = "Subsystem Registry"

// InitFunc activates a subsystem. It must return promptly; long-running
// work belongs on worker goroutines registered with the thread tracker.
type InitFunc func() error

// StopFunc releases a subsystem's resources. Best-effort and idempotent;
// it may be called on error paths.
type StopFunc func()

// DependencyStatus reports the outcome of AddDependency.
type DependencyStatus int

const (
	// DependencyRecorded means the provider was already registered.
	DependencyRecorded DependencyStatus = iota
	// DependencyMissing means the edge was stored but the provider is not
	// registered yet; it resolves lazily on query.
	DependencyMissing
)

// record is a single subsystem entry. All fields are guarded by the
// registry lock except the machine, which serializes itself.
type record struct {
	id             int
	kind           subsystem.Kind
	name           string
	machine        finitestate.Machine
	stateChangedAt time.Time
	deps           []string
	tracker        *threads.Tracker
	shutdown       *atomic.Bool
	initFn         InitFunc
	stopFn         StopFunc
}

// Dependency is one resolved edge in a snapshot view.
type Dependency struct {
	Name       string
	ID         int
	Registered bool
}

// SubsystemView is a by-value snapshot of one record.
type SubsystemView struct {
	ID             int
	Name           string
	Kind           subsystem.Kind
	State          string
	StateChangedAt time.Time
	Dependencies   []Dependency
	ThreadCount    int64
	HasInit        bool
	HasStop        bool
}

// Registry tracks identity, state, dependencies, worker trackers, shutdown
// flags, and lifecycle callbacks for each subsystem.
type Registry struct {
	mu      sync.Mutex
	byName  map[string]int
	records []*record
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets a custom logger for the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the registry.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Registry) {
		r.logger = slog.New(handler)
	}
}

// New creates a registry and registers the registry itself as id 0,
// transitioned to Running before any readiness check can observe it.
func New(opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]int),
		logger: slog.Default().WithGroup("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}

	id := r.Register(Name, subsystem.Registry)
	if err := r.SetState(id, finitestate.StatusStarting); err != nil {
		r.logger.Error("Registry self-registration failed", "error", err)
	}
	if err := r.SetState(id, finitestate.StatusRunning); err != nil {
		r.logger.Error("Registry self-registration failed", "error", err)
	}
	return r
}

// RegisterOption configures one Register call.
type RegisterOption func(*record)

// WithThreads attaches the subsystem's worker tracker.
func WithThreads(t *threads.Tracker) RegisterOption {
	return func(rec *record) {
		rec.tracker = t
	}
}

// WithShutdownFlag attaches the atomic flag the subsystem polls to exit.
func WithShutdownFlag(flag *atomic.Bool) RegisterOption {
	return func(rec *record) {
		rec.shutdown = flag
	}
}

// WithInitFunc attaches the activation callback.
func WithInitFunc(fn InitFunc) RegisterOption {
	return func(rec *record) {
		rec.initFn = fn
	}
}

// WithStopFunc attaches the teardown callback.
func WithStopFunc(fn StopFunc) RegisterOption {
	return func(rec *record) {
		rec.stopFn = fn
	}
}

// Register adds a subsystem or updates an existing one. Idempotent on name:
// a second call with the same name updates the supplied fields and returns
// the same id. A re-registered subsystem in a terminal state is reset to
// Inactive. The initial state is always Inactive.
func (r *Registry) Register(name string, kind subsystem.Kind, opts ...RegisterOption) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byName[name]; ok {
		rec := r.records[id]
		rec.kind = kind
		for _, opt := range opts {
			opt(rec)
		}
		if finitestate.Terminal(rec.machine.GetState()) {
			machine, err := r.newMachine(name)
			if err != nil {
				r.logger.Error("Failed to reset state machine", "subsystem", name, "error", err)
				return id
			}
			rec.machine = machine
			rec.stateChangedAt = time.Now()
			r.logger.Debug("Subsystem reset by re-registration", "subsystem", name, "id", id)
		}
		return id
	}

	machine, err := r.newMachine(name)
	if err != nil {
		// fsm.New only fails on a malformed transitions table, which is
		// fixed at compile time; log and fall through with a nil machine
		// guard in accessors rather than failing the caller.
		r.logger.Error("Failed to create state machine", "subsystem", name, "error", err)
	}

	rec := &record{
		id:             len(r.records),
		kind:           kind,
		name:           name,
		machine:        machine,
		stateChangedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(rec)
	}
	r.records = append(r.records, rec)
	r.byName[name] = rec.id
	r.logger.Debug("Subsystem registered", "subsystem", name, "id", rec.id)
	return rec.id
}

func (r *Registry) newMachine(name string) (finitestate.Machine, error) {
	handler := r.logger.WithGroup("fsm").With("subsystem", name).Handler()
	return finitestate.New(handler)
}

// AddDependency records a dependency edge by provider name. The edge is
// stored even when the provider is not registered yet; it resolves lazily
// in Snapshot queries.
func (r *Registry) AddDependency(id int, providerName string) DependencyStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.record(id)
	if rec == nil {
		return DependencyMissing
	}
	for _, existing := range rec.deps {
		if existing == providerName {
			// Duplicate edges collapse; status still reflects resolution.
			if _, ok := r.byName[providerName]; ok {
				return DependencyRecorded
			}
			return DependencyMissing
		}
	}
	rec.deps = append(rec.deps, providerName)
	if _, ok := r.byName[providerName]; ok {
		return DependencyRecorded
	}
	r.logger.Debug("Dependency provider not yet registered",
		"subsystem", rec.name, "provider", providerName)
	return DependencyMissing
}

// GetID resolves a subsystem name to its id.
func (r *Registry) GetID(name string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[name]
	return id, ok
}

// GetState returns the current lifecycle state, or the empty string for an
// unknown id. Free of side effects.
func (r *Registry) GetState(id int) string {
	r.mu.Lock()
	rec := r.record(id)
	r.mu.Unlock()
	if rec == nil || rec.machine == nil {
		return ""
	}
	return rec.machine.GetState()
}

// SetState attempts a lifecycle transition. Illegal transitions are
// rejected; StateChangedAt is updated only on an actual change.
func (r *Registry) SetState(id int, newState string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.record(id)
	if rec == nil || rec.machine == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSubsystem, id)
	}
	if rec.machine.GetState() == newState {
		return nil
	}
	if err := rec.machine.Transition(newState); err != nil {
		return fmt.Errorf("%w: %s -> %s for %s: %w",
			ErrIllegalTransition, rec.machine.GetState(), newState, rec.name, err)
	}
	rec.stateChangedAt = time.Now()
	return nil
}

// IsRunning reports whether the named subsystem is registered and Running.
func (r *Registry) IsRunning(name string) bool {
	r.mu.Lock()
	rec := (*record)(nil)
	if id, ok := r.byName[name]; ok {
		rec = r.records[id]
	}
	r.mu.Unlock()
	return rec != nil && rec.machine != nil &&
		rec.machine.GetState() == finitestate.StatusRunning
}

// StateChangedAt returns the timestamp of the last state transition.
func (r *Registry) StateChangedAt(id int) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.record(id); rec != nil {
		return rec.stateChangedAt
	}
	return time.Time{}
}

// Callbacks returns the lifecycle callbacks for a subsystem. Either may be
// nil for passive subsystems.
func (r *Registry) Callbacks(id int) (InitFunc, StopFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record(id)
	if rec == nil {
		return nil, nil
	}
	return rec.initFn, rec.stopFn
}

// Tracker returns the subsystem's worker tracker, if any.
func (r *Registry) Tracker(id int) *threads.Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.record(id); rec != nil {
		return rec.tracker
	}
	return nil
}

// ShutdownFlag returns the subsystem's shutdown flag, if any.
func (r *Registry) ShutdownFlag(id int) *atomic.Bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.record(id); rec != nil {
		return rec.shutdown
	}
	return nil
}

// Count returns the number of registered subsystems.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Snapshot returns a stable, by-value view of every record ordered by id.
func (r *Registry) Snapshot() []SubsystemView {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]SubsystemView, 0, len(r.records))
	for _, rec := range r.records {
		state := ""
		if rec.machine != nil {
			state = rec.machine.GetState()
		}
		deps := make([]Dependency, 0, len(rec.deps))
		for _, name := range rec.deps {
			dep := Dependency{Name: name, ID: -1}
			if id, ok := r.byName[name]; ok {
				dep.ID = id
				dep.Registered = true
			}
			deps = append(deps, dep)
		}
		var count int64
		if rec.tracker != nil {
			count = rec.tracker.Count()
		}
		views = append(views, SubsystemView{
			ID:             rec.id,
			Name:           rec.name,
			Kind:           rec.kind,
			State:          state,
			StateChangedAt: rec.stateChangedAt,
			Dependencies:   deps,
			ThreadCount:    count,
			HasInit:        rec.initFn != nil,
			HasStop:        rec.stopFn != nil,
		})
	}
	return views
}

// record returns the entry for id, or nil. Callers hold the lock.
func (r *Registry) record(id int) *record {
	if id < 0 || id >= len(r.records) {
		return nil
	}
	return r.records[id]
}
