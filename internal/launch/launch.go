// Package launch drives the forward pipeline: per-subsystem readiness
// evaluation, registration of Go subsystems, the DECIDE summary, the
// registry census, ordered activation, and the closing REVIEW.
package launch

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/logging"
	"github.com/atlanticdynamic/hydrogen/internal/netinfo"
	"github.com/atlanticdynamic/hydrogen/internal/readiness"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/runstate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
	"github.com/atlanticdynamic/hydrogen/internal/threads"
	"github.com/gofrs/uuid/v5"
)

// Category is the event category the pipeline logs under.
const Category = "Launch"

// Spec describes one launchable subsystem: its dependency edges and the
// callbacks and tracker handed to the registry when the subsystem goes Go.
// Kinds without a Spec are still evaluated, but stay unregistered; a Go
// decision for such a kind shows as Ready in the REVIEW.
type Spec struct {
	Kind         subsystem.Kind
	Dependencies []string
	Tracker      *threads.Tracker
	Init         registry.InitFunc
	Stop         registry.StopFunc
}

// Decision is one subsystem's Go/No-Go outcome for the pass.
type Decision struct {
	Kind subsystem.Kind
	Name string
	Go   bool
}

// Result summarizes one launch pass.
type Result struct {
	PassID     uuid.UUID
	Records    map[subsystem.Kind]*readiness.Record
	Decisions  []Decision
	Registered int
	Enabled    int
	Disabled   int
	Activated  []subsystem.Kind
	Failed     []subsystem.Kind
	// Aborted is set when the stopping flag was observed between phases
	// and remaining launch work was abandoned.
	Aborted bool
}

// Orchestrator runs the launch pipeline on the coordinator goroutine.
type Orchestrator struct {
	cfg      *config.AppConfig
	flags    *runstate.Flags
	reg      *registry.Registry
	specs    map[subsystem.Kind]Spec
	sink     *logging.Sink
	net      netinfo.Enumerator
	execPath string
	logger   *slog.Logger
}

// New builds a launch orchestrator over the frozen config, the run-state
// flags, the registry, and the subsystem specs the coordinator assembled.
func New(
	cfg *config.AppConfig,
	flags *runstate.Flags,
	reg *registry.Registry,
	specs []Spec,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		flags:  flags,
		reg:    reg,
		specs:  make(map[subsystem.Kind]Spec, len(specs)),
		logger: slog.Default().WithGroup("launch"),
	}
	for _, spec := range specs {
		o.specs[spec.Kind] = spec
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sink == nil {
		o.sink = logging.NewSink(o.logger.Handler())
	}
	if o.execPath == "" {
		if path, err := os.Executable(); err == nil {
			o.execPath = path
		}
	}
	return o
}

// Run executes the pipeline phases in order. It never returns an error: a
// single subsystem failure is recorded in its state and the Result, and
// the next subsystem proceeds independently.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	result := &Result{
		PassID:  uuid.Must(uuid.NewV6()),
		Records: make(map[subsystem.Kind]*readiness.Record, subsystem.Count),
	}

	o.readinessPhase(result)
	if o.abandoned(ctx, result) {
		return result
	}

	o.decidePhase(result)
	o.censusPhase(result)
	if o.abandoned(ctx, result) {
		return result
	}

	o.activationPhase(ctx, result)
	o.reviewPhase(result)
	return result
}

// abandoned reports whether external shutdown was signaled between phases.
func (o *Orchestrator) abandoned(ctx context.Context, result *Result) bool {
	if ctx.Err() != nil || o.flags.Stopping() {
		if !result.Aborted {
			result.Aborted = true
			o.sink.Emit(Category, logging.SeverityAlert,
				"Shutdown signaled, abandoning remaining launch work")
		}
		return true
	}
	return false
}

// readinessPhase walks the canonical order, evaluating each kind and
// registering each Go subsystem immediately so later evaluators observe
// their providers in the registry snapshot. All evaluations complete
// before any activation begins.
func (o *Orchestrator) readinessPhase(result *Result) {
	group := o.sink.Group(Category)
	group.State("LAUNCH READINESS")
	group.State("Pass " + result.PassID.String())

	for _, kind := range subsystem.LaunchOrder() {
		ectx := readiness.Context{
			Cfg:            o.cfg,
			Flags:          o.flags,
			Snapshot:       o.reg.Snapshot(),
			Net:            o.net,
			ExecutablePath: o.execPath,
		}
		rec := readiness.ForKind(kind).Evaluate(ectx)
		result.Records[kind] = rec

		if rec.Ready && kind != subsystem.Registry {
			o.registerSubsystem(kind, rec)
		}

		for _, line := range rec.Messages() {
			if rec.Ready {
				group.State(line)
			} else {
				group.Alert(line)
			}
		}
	}
	group.Close()
}

// registerSubsystem registers a Go subsystem with its tracker, shutdown
// flag, and callbacks, then records its dependency edges. A dependency on
// an unregistered provider is stored but forces the dependent to No-Go.
func (o *Orchestrator) registerSubsystem(kind subsystem.Kind, rec *readiness.Record) {
	spec, ok := o.specs[kind]
	if !ok {
		// Passive: Go without registration, reported as Ready in REVIEW.
		return
	}

	regOpts := []registry.RegisterOption{
		registry.WithShutdownFlag(o.flags.ShutdownFlag(kind)),
	}
	if spec.Tracker != nil {
		regOpts = append(regOpts, registry.WithThreads(spec.Tracker))
	}
	if spec.Init != nil {
		regOpts = append(regOpts, registry.WithInitFunc(spec.Init))
	}
	if spec.Stop != nil {
		regOpts = append(regOpts, registry.WithStopFunc(spec.Stop))
	}

	id := o.reg.Register(kind.String(), kind, regOpts...)
	for _, provider := range spec.Dependencies {
		if o.reg.AddDependency(id, provider) == registry.DependencyMissing {
			rec.Override("Launch", kind.LongName(),
				"Dependency (provider not registered: %s)", provider)
		}
	}
}

// decidePhase emits the DECIDE summary: one aligned Go/No-Go line per
// subsystem in canonical order.
func (o *Orchestrator) decidePhase(result *Result) {
	group := o.sink.Group(Category)
	group.State("DECIDE")
	for _, kind := range subsystem.LaunchOrder() {
		rec := result.Records[kind]
		decision := Decision{Kind: kind, Name: kind.String(), Go: rec.Ready}
		result.Decisions = append(result.Decisions, decision)
		if rec.Ready {
			group.State(readiness.GoPrefix + kind.String())
		} else {
			group.State(readiness.NoGoPrefix + kind.String())
		}
	}
	group.Close()
}

// censusPhase emits the registry totals.
func (o *Orchestrator) censusPhase(result *Result) {
	for _, decision := range result.Decisions {
		if decision.Go {
			result.Enabled++
		} else {
			result.Disabled++
		}
	}
	result.Registered = o.reg.Count()

	group := o.sink.Group("Subsystem-Registry")
	group.State("SUBSYSTEM REGISTRY")
	group.State("Total subsystems registered: " + strconv.Itoa(result.Registered))
	group.State("Enabled (Go): " + strconv.Itoa(result.Enabled))
	group.State("Disabled (No-Go): " + strconv.Itoa(result.Disabled))
	group.Close()
}

// activationPhase activates each registered Go subsystem in canonical
// order: Starting, then the init callback, then Running on success or
// Error on failure. A failure never aborts the pipeline.
func (o *Orchestrator) activationPhase(ctx context.Context, result *Result) {
	for _, kind := range subsystem.LaunchOrder() {
		if kind == subsystem.Registry {
			continue
		}
		if o.abandoned(ctx, result) {
			return
		}
		rec := result.Records[kind]
		if !rec.Ready {
			continue
		}
		id, ok := o.reg.GetID(kind.String())
		if !ok {
			continue
		}

		if err := o.reg.SetState(id, finitestate.StatusStarting); err != nil {
			o.logger.Error("Failed to mark subsystem starting",
				"subsystem", kind.String(), "error", err)
			continue
		}

		initFn, _ := o.reg.Callbacks(id)
		if initFn != nil {
			if err := initFn(); err != nil {
				o.sink.Emit(kind.String(), logging.SeverityError,
					"Activation failed: "+err.Error())
				if stateErr := o.reg.SetState(id, finitestate.StatusError); stateErr != nil {
					o.logger.Error("Failed to mark subsystem errored",
						"subsystem", kind.String(), "error", stateErr)
				}
				result.Failed = append(result.Failed, kind)
				continue
			}
		}

		if err := o.reg.SetState(id, finitestate.StatusRunning); err != nil {
			o.logger.Error("Failed to mark subsystem running",
				"subsystem", kind.String(), "error", err)
			continue
		}
		result.Activated = append(result.Activated, kind)
		o.sink.Emit(kind.String(), logging.SeverityState, "Subsystem running")
	}
}

