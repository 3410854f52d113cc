package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// mdnsEvaluator covers both the mDNS server and client. Both need only the
// configuration and a registered Network subsystem.
type mdnsEvaluator struct {
	kind subsystem.Kind
}

func (e mdnsEvaluator) Kind() subsystem.Kind { return e.kind }

func (e mdnsEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(e.kind.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, e.kind)
	}
	rec.Go("Configuration (loaded)")

	if ctx.Registered(subsystem.Network.String()) {
		rec.Go("Network dependency (registered)")
	} else {
		rec.NoGo("Network dependency (subsystem not registered)")
	}

	rec.FinalizeLaunch(e.kind.LongName())
	return rec
}
