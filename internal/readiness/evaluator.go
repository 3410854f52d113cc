package readiness

import (
	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/netinfo"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/runstate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// Context carries the frozen inputs a readiness pass evaluates against.
// Evaluators never mutate it; evaluating twice against the same Context
// yields identical records.
type Context struct {
	// Cfg is the frozen AppConfig, or nil when the coordinator asked for a
	// readiness check before configuration loaded.
	Cfg *config.AppConfig

	// Flags is the process run-state flag set.
	Flags *runstate.Flags

	// Snapshot is the registry view taken just before this evaluation.
	Snapshot []registry.SubsystemView

	// Net enumerates live network interfaces.
	Net netinfo.Enumerator

	// ExecutablePath locates the running binary for the payload scan.
	ExecutablePath string
}

// Registered reports whether the named subsystem appears in the snapshot.
func (c Context) Registered(name string) bool {
	for _, view := range c.Snapshot {
		if view.Name == name {
			return true
		}
	}
	return false
}

// Running reports whether the named subsystem is Running in the snapshot.
func (c Context) Running(name string) bool {
	for _, view := range c.Snapshot {
		if view.Name == name {
			return view.State == finitestate.StatusRunning
		}
	}
	return false
}

// Evaluator answers, for one subsystem kind, whether a start attempt right
// now would succeed, with one Go/No-Go fact per precondition examined.
type Evaluator interface {
	Kind() subsystem.Kind
	Evaluate(ctx Context) *Record
}

// evaluators holds one evaluator per kind, indexed by the canonical order.
var evaluators = [subsystem.Count]Evaluator{
	subsystem.Registry:   registryEvaluator{},
	subsystem.Payload:    payloadEvaluator{},
	subsystem.Threads:    threadsEvaluator{},
	subsystem.Network:    networkEvaluator{},
	subsystem.Logging:    loggingEvaluator{},
	subsystem.Database:   databaseEvaluator{},
	subsystem.WebServer:  webServerEvaluator{},
	subsystem.API:        apiEvaluator{},
	subsystem.Swagger:    swaggerEvaluator{},
	subsystem.WebSocket:  webSocketEvaluator{},
	subsystem.Terminal:   minimalEvaluator{kind: subsystem.Terminal},
	subsystem.MDNSServer: mdnsEvaluator{kind: subsystem.MDNSServer},
	subsystem.MDNSClient: mdnsEvaluator{kind: subsystem.MDNSClient},
	subsystem.MailRelay:  smtpEvaluator{kind: subsystem.MailRelay},
	subsystem.PrintQueue: printQueueEvaluator{},
	subsystem.Notify:     smtpEvaluator{kind: subsystem.Notify},
	subsystem.Resources:  minimalEvaluator{kind: subsystem.Resources},
	subsystem.OIDC:       minimalEvaluator{kind: subsystem.OIDC},
}

// ForKind returns the launch evaluator for a subsystem kind.
func ForKind(kind subsystem.Kind) Evaluator {
	if !kind.Valid() {
		return nil
	}
	return evaluators[kind]
}

// configAbsent handles the shared ConfigurationAbsent precondition: the
// record is No-Go and finalized, and the caller returns it as-is. This is
// never an error condition, only a fact.
func configAbsent(rec *Record, kind subsystem.Kind) *Record {
	rec.NoGo("Configuration (not loaded)")
	rec.FinalizeLaunch(kind.LongName())
	return rec
}
