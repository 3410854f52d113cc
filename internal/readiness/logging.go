package readiness

import (
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// severity bounds for logging sinks.
const (
	minLogLevel = 0
	maxLogLevel = 5
)

// loggingEvaluator requires at least one output sink that is enabled with a
// severity inside [0,5]. An enabled file sink additionally needs a writable
// target directory.
type loggingEvaluator struct{}

func (loggingEvaluator) Kind() subsystem.Kind { return subsystem.Logging }

func (loggingEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.Logging.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.Logging)
	}

	lc := ctx.Cfg.Logging
	valid := 0
	valid += checkSink(rec, "Console", lc.Console.Enabled, lc.Console.Level)
	valid += checkSink(rec, "Database", lc.Database.Enabled, lc.Database.Level)
	valid += checkSink(rec, "Notify", lc.Notify.Enabled, lc.Notify.Level)

	if lc.File.Enabled {
		if ok := checkSink(rec, "File", true, lc.File.Level); ok == 1 {
			if checkFileSinkDir(rec, lc.File.Path) {
				valid++
			}
		}
	} else {
		rec.Go("File Sink (disabled)")
	}

	if valid == 0 {
		rec.NoGo("Output Sinks (none enabled and valid)")
	}

	rec.FinalizeLaunch(subsystem.Logging.LongName())
	return rec
}

// checkSink returns 1 when the sink counts toward the at-least-one rule.
func checkSink(rec *Record, name string, enabled bool, level int) int {
	if !enabled {
		rec.Go("%s Sink (disabled)", name)
		return 0
	}
	if level < minLogLevel || level > maxLogLevel {
		rec.NoGo("%s Sink (severity out of range: %d)", name, level)
		return 0
	}
	rec.Go("%s Sink (enabled, severity %d)", name, level)
	return 1
}

func checkFileSinkDir(rec *Record, path string) bool {
	if path == "" {
		rec.NoGo("File Sink (no path configured)")
		return false
	}
	dir := filepath.Dir(path)
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		rec.NoGo("File Sink (directory missing: %s)", dir)
		return false
	}
	if st.Mode().Perm()&0o200 == 0 {
		rec.NoGo("File Sink (directory not writable: %s)", dir)
		return false
	}
	rec.Go("File Sink (directory writable: %s)", dir)
	return true
}
