package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// minimalEvaluator is the gate for subsystems whose only launch
// preconditions are a loaded configuration and the process not shutting
// down: Terminal, Resources, OIDC.
type minimalEvaluator struct {
	kind subsystem.Kind
}

func (e minimalEvaluator) Kind() subsystem.Kind { return e.kind }

func (e minimalEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(e.kind.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, e.kind)
	}
	rec.Go("Configuration (loaded)")

	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
	} else {
		rec.Go("Shutdown State (not in shutdown)")
	}

	rec.FinalizeLaunch(e.kind.LongName())
	return rec
}
