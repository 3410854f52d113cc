package readiness

import (
	"strings"

	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// Swagger documentation bounds.
const (
	swaggerPrefixMax      = 64
	swaggerTitleMax       = 128
	swaggerVersionMax     = 32
	swaggerDescriptionMax = 1024
	swaggerDepthMax       = 10
)

var validDocExpansions = map[string]bool{
	"list": true,
	"full": true,
	"none": true,
}

// swaggerEvaluator bounds-checks the documentation configuration and
// requires the Payload and API evaluations to pass, since the swagger UI is
// served from the appended payload through the API routes.
type swaggerEvaluator struct{}

func (swaggerEvaluator) Kind() subsystem.Kind { return subsystem.Swagger }

func (swaggerEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.Swagger.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.Swagger)
	}

	if ctx.Flags != nil && ctx.Flags.Stopping() {
		rec.NoGo("Shutdown (in progress)")
	} else {
		rec.Go("Shutdown State (not in shutdown)")
	}

	sc := ctx.Cfg.Swagger
	switch {
	case sc.Prefix == "":
		rec.NoGo("Prefix (not configured)")
	case !strings.HasPrefix(sc.Prefix, "/"):
		rec.NoGo("Prefix (must start with /: %s)", sc.Prefix)
	case len(sc.Prefix) > swaggerPrefixMax:
		rec.NoGo("Prefix (too long: %d chars)", len(sc.Prefix))
	default:
		rec.Go("Prefix (%s)", sc.Prefix)
	}

	checkBoundedString(rec, "Title", sc.Title, swaggerTitleMax, true)
	checkBoundedString(rec, "Version", sc.Version, swaggerVersionMax, true)
	checkBoundedString(rec, "Description", sc.Description, swaggerDescriptionMax, false)

	checkDepth(rec, "Models Expand Depth", sc.DefaultModelsExpandDepth)
	checkDepth(rec, "Model Expand Depth", sc.DefaultModelExpandDepth)

	if validDocExpansions[sc.DocExpansion] {
		rec.Go("Doc Expansion (%s)", sc.DocExpansion)
	} else {
		rec.NoGo("Doc Expansion (invalid: %s)", sc.DocExpansion)
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

	if ForKind(subsystem.Payload).Evaluate(ctx).Ready {
		rec.Go("Payload readiness (Go)")
	} else {
		rec.NoGo("Payload readiness (No-Go)")
	}
	if ForKind(subsystem.API).Evaluate(ctx).Ready {
		rec.Go("API readiness (Go)")
	} else {
		rec.NoGo("API readiness (No-Go)")
	}

	rec.FinalizeLaunch(subsystem.Swagger.LongName())
	return rec
}

func checkBoundedString(rec *Record, label, value string, max int, required bool) {
	switch {
	case value == "" && required:
		rec.NoGo("%s (not configured)", label)
	case len(value) > max:
		rec.NoGo("%s (too long: %d chars, maximum %d)", label, len(value), max)
	case value == "":
		rec.Go("%s (empty)", label)
	default:
		rec.Go("%s (%d chars)", label, len(value))
	}
}

func checkDepth(rec *Record, label string, depth int) {
	if depth < 0 || depth > swaggerDepthMax {
		rec.NoGo("%s (out of range: %d)", label, depth)
		return
	}
	rec.Go("%s (%d)", label, depth)
}
