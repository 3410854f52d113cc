package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// registryEvaluator covers the Subsystem Registry itself. The registry has
// no dependencies and never fails; it is always Go.
type registryEvaluator struct{}

func (registryEvaluator) Kind() subsystem.Kind { return subsystem.Registry }

func (registryEvaluator) Evaluate(Context) *Record {
	rec := NewRecord(subsystem.Registry.String())
	rec.Go("Registry (always ready)")
	rec.FinalizeLaunch(subsystem.Registry.LongName())
	return rec
}
