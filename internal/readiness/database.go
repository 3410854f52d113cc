package readiness

import (
	"os"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// supportedEngines are the database engines the server links drivers for.
var supportedEngines = map[string]bool{
	"postgresql": true,
	"mysql":      true,
	"sqlite":     true,
	"db2":        true,
}

// databaseEvaluator validates every configured connection: a supported
// engine, the per-engine required fields, and for SQLite a readable file.
type databaseEvaluator struct{}

func (databaseEvaluator) Kind() subsystem.Kind { return subsystem.Database }

func (databaseEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.Database.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.Database)
	}

	conns := ctx.Cfg.Database.Connections
	if len(conns) == 0 {
		rec.NoGo("Connections (none configured)")
		rec.FinalizeLaunch(subsystem.Database.LongName())
		return rec
	}

	for _, conn := range conns {
		checkConnection(rec, conn)
	}

	rec.FinalizeLaunch(subsystem.Database.LongName())
	return rec
}

func checkConnection(rec *Record, conn config.DatabaseConnection) {
	if conn.Name == "" || conn.Type == "" {
		rec.NoGo("Connection (missing name or type)")
		return
	}
	if !supportedEngines[conn.Type] {
		rec.NoGo("Connection %s (engine unsupported: %s)", conn.Name, conn.Type)
		return
	}

	switch conn.Type {
	case "sqlite":
		if conn.Path == "" {
			rec.NoGo("Connection %s (sqlite file path missing)", conn.Name)
			return
		}
		f, err := os.Open(conn.Path)
		if err != nil {
			rec.NoGo("Connection %s (sqlite file not readable: %s)", conn.Name, conn.Path)
			return
		}
		f.Close()
	default:
		// Networked engines all need host/port/user/pass.
		switch {
		case conn.Host == "":
			rec.NoGo("Connection %s (host missing)", conn.Name)
			return
		case conn.Port <= 0:
			rec.NoGo("Connection %s (port missing)", conn.Name)
			return
		case conn.User == "":
			rec.NoGo("Connection %s (user missing)", conn.Name)
			return
		case conn.Pass == "":
			rec.NoGo("Connection %s (password missing)", conn.Name)
			return
		}
	}
	rec.Go("Connection %s (%s)", conn.Name, conn.Type)
}
