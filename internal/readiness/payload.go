package readiness

import (
	"errors"
	"os"

	"github.com/atlanticdynamic/hydrogen/internal/config"
	"github.com/atlanticdynamic/hydrogen/internal/payload"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// payloadEvaluator checks the appended-payload preconditions: a readable
// executable, a well-formed marker plus size field, and a configured
// decryption key.
type payloadEvaluator struct{}

func (payloadEvaluator) Kind() subsystem.Kind { return subsystem.Payload }

func (payloadEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.Payload.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.Payload)
	}

	execPath := ctx.ExecutablePath
	if execPath == "" {
		rec.NoGo("Executable (path not resolvable)")
	} else if _, err := os.Stat(execPath); err != nil {
		rec.NoGo("Executable (not readable: %s)", execPath)
	} else {
		rec.Go("Executable (%s)", execPath)
		checkPayloadRegion(rec, execPath)
	}

	checkDecryptionKey(rec, ctx.Cfg)

	rec.FinalizeLaunch(subsystem.Payload.LongName())
	return rec
}

func checkPayloadRegion(rec *Record, execPath string) {
	info, err := payload.Scan(execPath)
	switch {
	case err == nil:
		rec.Go("Payload (marker at offset %d)", info.MarkerOffset)
		rec.Go("Payload Size (%d bytes)", info.Size)
	case errors.Is(err, payload.ErrMarkerNotFound):
		rec.NoGo("Payload (not found)")
	case errors.Is(err, payload.ErrSizeFieldShort):
		rec.NoGo("Payload Size (size field truncated)")
	case errors.Is(err, payload.ErrSizeZero):
		rec.NoGo("Payload Size (zero)")
	case errors.Is(err, payload.ErrSizeExceedsSpace):
		rec.NoGo("Payload Size (%d exceeds available space before marker at offset %d)",
			info.Size, info.MarkerOffset)
	case errors.Is(err, payload.ErrSizeExceedsMaximum):
		rec.NoGo("Payload Size (%d exceeds 100 MiB maximum)", info.Size)
	default:
		rec.NoGo("Payload (scan failed: %v)", err)
	}
}

func checkDecryptionKey(rec *Record, cfg *config.AppConfig) {
	if cfg.Payload.Key == "" {
		rec.NoGo("Decryption Key (not configured)")
		return
	}
	if envName, ok := cfg.EnvSource("payload.key"); ok {
		rec.Go("Decryption Key (from environment: %s)", envName)
		return
	}
	rec.Go("Decryption Key (configured)")
}
