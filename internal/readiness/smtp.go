package readiness

import (
	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// smtpEvaluator covers the mail relay and notify subsystems, which share
// the same SMTP configuration shape.
type smtpEvaluator struct {
	kind subsystem.Kind
}

func (e smtpEvaluator) Kind() subsystem.Kind { return e.kind }

func (e smtpEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(e.kind.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, e.kind)
	}

	var sc config.SMTPConfig
	if e.kind == subsystem.MailRelay {
		sc = ctx.Cfg.MailRelay
	} else {
		sc = ctx.Cfg.Notify
	}

	if !sc.Enabled {
		rec.NoGo("Enabled (disabled in configuration)")
		rec.FinalizeLaunch(e.kind.LongName())
		return rec
	}
	rec.Go("Enabled")

	if sc.SMTPHost == "" {
		rec.NoGo("SMTP Host (not configured)")
	} else {
		rec.Go("SMTP Host (%s)", sc.SMTPHost)
	}
	if sc.SMTPPort <= 0 {
		rec.NoGo("SMTP Port (not configured)")
	} else {
		rec.Go("SMTP Port (%d)", sc.SMTPPort)
	}
	if sc.From == "" {
		rec.NoGo("From Address (not configured)")
	} else {
		rec.Go("From Address (%s)", sc.From)
	}

	if ctx.Running(registry.Name) {
		rec.Go("Registry (reachable)")
	} else {
		rec.NoGo("Registry (not reachable)")
	}

	rec.FinalizeLaunch(e.kind.LongName())
	return rec
}
