package readiness

import (
	"github.com/atlanticdynamic/hydrogen/internal/netinfo"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// networkEvaluator compares the configured interface set against the live
// enumeration. At least one interface must be both up and not
// administratively disabled.
type networkEvaluator struct{}

func (networkEvaluator) Kind() subsystem.Kind { return subsystem.Network }

func (networkEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.Network.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.Network)
	}

	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
		rec.FinalizeLaunch(subsystem.Network.LongName())
		return rec
	}
	rec.Go("Shutdown State (not in shutdown)")

	if ctx.Flags == nil || (!ctx.Flags.Starting() && !ctx.Flags.Running()) {
		rec.NoGo("Run State (neither starting nor running)")
		rec.FinalizeLaunch(subsystem.Network.LongName())
		return rec
	}
	rec.Go("Run State (%s)", ctx.Flags.Phase())

	live, err := enumerate(ctx.Net)
	if err != nil {
		rec.NoGo("Network Interfaces (enumeration failed: %v)", err)
		rec.FinalizeLaunch(subsystem.Network.LongName())
		return rec
	}
	if len(live) == 0 {
		rec.NoGo("Network Interfaces (none enumerated)")
		rec.FinalizeLaunch(subsystem.Network.LongName())
		return rec
	}
	rec.Go("Network Interfaces (%d enumerated)", len(live))

	viable := 0
	for _, want := range ctx.Cfg.Network.Interfaces {
		got, present := netinfo.Find(live, want.Name)
		switch {
		case !present && want.Available:
			rec.NoGo("Interface %s (configured available but not present)", want.Name)
		case present && !want.Available:
			rec.Go("Interface %s (administratively disabled)", want.Name)
		case present && !got.Up:
			rec.Go("Interface %s (present, down)", want.Name)
		case present:
			rec.Go("Interface %s (up)", want.Name)
			viable++
		default:
			rec.Go("Interface %s (not present, marked unavailable)", want.Name)
		}
	}

	// With no interfaces configured, any live non-loopback link will do.
	if len(ctx.Cfg.Network.Interfaces) == 0 {
		for _, ifc := range live {
			if ifc.Up && !ifc.Loopback {
				rec.Go("Interface %s (up, unconfigured)", ifc.Name)
				viable++
			}
		}
	}

	if viable == 0 {
		rec.NoGo("Usable Interfaces (all down or disabled)")
	}

	rec.FinalizeLaunch(subsystem.Network.LongName())
	return rec
}

func enumerate(e netinfo.Enumerator) ([]netinfo.Interface, error) {
	if e == nil {
		e = netinfo.System{}
	}
	return e.Interfaces()
}
