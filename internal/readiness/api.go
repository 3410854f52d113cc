package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// apiEvaluator validates the REST API configuration. The JWT secret is
// checked but its value never appears in a message.
type apiEvaluator struct{}

func (apiEvaluator) Kind() subsystem.Kind { return subsystem.API }

func (apiEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.API.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.API)
	}

	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
	} else {
		rec.Go("Shutdown State (not in shutdown)")
	}

	if ctx.Cfg.API.Prefix == "" {
		rec.NoGo("API Prefix (not configured)")
	} else {
		rec.Go("API Prefix (%s)", ctx.Cfg.API.Prefix)
	}

	if ctx.Cfg.API.JWTSecret == "" {
		rec.NoGo("JWT Secret (not configured)")
	} else {
		rec.Go("JWT Secret (configured)")
	}

	if ctx.Registered(subsystem.Network.String()) {
		rec.Go("Network dependency (registered)")
	} else {
		rec.NoGo("Network dependency (subsystem not registered)")
	}
	if ctx.Registered(subsystem.WebServer.String()) {
		rec.Go("WebServer dependency (registered)")
	} else {
		rec.NoGo("WebServer dependency (subsystem not registered)")
	}

	rec.FinalizeLaunch(subsystem.API.LongName())
	return rec
}
