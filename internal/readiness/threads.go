package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// threadsEvaluator gates the thread tracker subsystem on the single
// precondition that the process is not already shutting down.
type threadsEvaluator struct{}

func (threadsEvaluator) Kind() subsystem.Kind { return subsystem.Threads }

func (threadsEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.Threads.String())
	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
	} else {
		rec.Go("Shutdown State (not in shutdown)")
	}
	rec.FinalizeLaunch(subsystem.Threads.LongName())
	return rec
}
