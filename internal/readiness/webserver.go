package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// Web server port policy: the two well-known HTTP ports, or the
// unprivileged range.
const (
	webPortRangeLow  = 1024
	webPortRangeHigh = 65535
)

// webServerEvaluator validates the HTTP server configuration and its
// dependency on the Network subsystem.
type webServerEvaluator struct{}

func (webServerEvaluator) Kind() subsystem.Kind { return subsystem.WebServer }

func (webServerEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.WebServer.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.WebServer)
	}

	ws := ctx.Cfg.WebServer
	if !ws.Enabled {
		rec.NoGo("Enabled (disabled in configuration)")
		rec.FinalizeLaunch(subsystem.WebServer.LongName())
		return rec
	}
	rec.Go("Enabled")

	if validWebPort(ws.Port) {
		rec.Go("Port Configuration (%d)", ws.Port)
	} else {
		rec.NoGo("Port Configuration (invalid: %d)", ws.Port)
	}

	checkNonEmpty(rec, "Web Root", ws.WebRoot)
	checkNonEmpty(rec, "Upload Path", ws.UploadPath)
	checkNonEmpty(rec, "Upload Directory", ws.UploadDir)

	if ws.MaxUploadSize > 0 {
		rec.Go("Max Upload Size (%d)", ws.MaxUploadSize)
	} else {
		rec.NoGo("Max Upload Size (must be positive: %d)", ws.MaxUploadSize)
	}

	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
	} else {
		rec.Go("Shutdown State (not in shutdown)")
	}

	if ctx.Registered(subsystem.Network.String()) {
		rec.Go("Network dependency (registered)")
	} else {
		rec.NoGo("Network dependency (subsystem not registered)")
	}

	rec.FinalizeLaunch(subsystem.WebServer.LongName())
	return rec
}

func validWebPort(port int) bool {
	if port == 80 || port == 443 {
		return true
	}
	return port >= webPortRangeLow && port <= webPortRangeHigh
}

func checkNonEmpty(rec *Record, label, value string) {
	if value == "" {
		rec.NoGo("%s (not configured)", label)
		return
	}
	rec.Go("%s (%s)", label, value)
}
