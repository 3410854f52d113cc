package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// webSocketEvaluator validates the WebSocket listener configuration and its
// dependency on the Logging subsystem.
type webSocketEvaluator struct{}

func (webSocketEvaluator) Kind() subsystem.Kind { return subsystem.WebSocket }

func (webSocketEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.WebSocket.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.WebSocket)
	}

	wc := ctx.Cfg.WebSocket
	if !wc.Enabled {
		rec.NoGo("Enabled (disabled in configuration)")
		rec.FinalizeLaunch(subsystem.WebSocket.LongName())
		return rec
	}
	rec.Go("Enabled")

	if wc.Port >= 1 && wc.Port <= 65535 {
		rec.Go("Port Configuration (%d)", wc.Port)
	} else {
		rec.NoGo("Port Configuration (invalid: %d)", wc.Port)
	}

	if wc.Protocol == "" {
		rec.NoGo("Protocol (not configured)")
	} else {
		rec.Go("Protocol (%s)", wc.Protocol)
	}

	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
	} else {
		rec.Go("Shutdown State (not in shutdown)")
	}

	if ctx.Registered(subsystem.Logging.String()) {
		rec.Go("Logging dependency (registered)")
	} else {
		rec.NoGo("Logging dependency (subsystem not registered)")
	}

	rec.FinalizeLaunch(subsystem.WebSocket.LongName())
	return rec
}
