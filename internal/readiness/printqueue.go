package readiness

import "github.com/atlanticdynamic/hydrogen/internal/subsystem"

// Print queue bounds, all inclusive.
const (
	priorityMin       = 0
	priorityMax       = 100
	prioritySpreadMin = 10
	shutdownWaitMinMS = 1000
	shutdownWaitMaxMS = 30000
	jobTimeoutMinMS   = 30000
	jobTimeoutMaxMS   = 3600000
	messageSizeMin    = 128
	messageSizeMax    = 16384
)

// printQueueEvaluator validates the print queue configuration: priority
// bands, timing windows, message sizes, and motion limits, plus a running
// Logging subsystem and a clear shutdown flag.
type printQueueEvaluator struct{}

func (printQueueEvaluator) Kind() subsystem.Kind { return subsystem.PrintQueue }

func (printQueueEvaluator) Evaluate(ctx Context) *Record {
	rec := NewRecord(subsystem.PrintQueue.String())
	if ctx.Cfg == nil {
		return configAbsent(rec, subsystem.PrintQueue)
	}

	pq := ctx.Cfg.PrintQueue
	if !pq.Enabled {
		rec.NoGo("Enabled (disabled in configuration)")
		rec.FinalizeLaunch(subsystem.PrintQueue.LongName())
		return rec
	}
	rec.Go("Enabled")

	if ctx.Running(subsystem.Logging.String()) {
		rec.Go("Logging dependency (running)")
	} else {
		rec.NoGo("Logging dependency (not running)")
	}

	if ctx.Flags != nil && ctx.Flags.ShutdownRequested(subsystem.PrintQueue) {
		rec.NoGo("Shutdown Flag (set)")
	} else {
		rec.Go("Shutdown Flag (clear)")
	}

	if pq.CommandBufferSize > 0 {
		rec.Go("Command Buffer (%d)", pq.CommandBufferSize)
	} else {
		rec.NoGo("Command Buffer (must be positive: %d)", pq.CommandBufferSize)
	}

	checkPriorities(rec, pq.Priorities)
	checkRange(rec, "Shutdown Wait", pq.ShutdownWaitMS, shutdownWaitMinMS, shutdownWaitMaxMS, "ms")
	checkRange(rec, "Job Timeout", pq.JobTimeoutMS, jobTimeoutMinMS, jobTimeoutMaxMS, "ms")
	checkRange(rec, "Min Message Size", pq.MinMessageSize, messageSizeMin, messageSizeMax, "bytes")
	checkRange(rec, "Max Message Size", pq.MaxMessageSize, messageSizeMin, messageSizeMax, "bytes")
	if pq.MinMessageSize > pq.MaxMessageSize {
		rec.NoGo("Message Sizes (min %d exceeds max %d)", pq.MinMessageSize, pq.MaxMessageSize)
	}

	checkMotionLimit(rec, "Max Speed", pq.MaxSpeed)
	checkMotionLimit(rec, "Max Acceleration", pq.MaxAcceleration)
	checkMotionLimit(rec, "Max Jerk", pq.MaxJerk)

	rec.FinalizeLaunch(subsystem.PrintQueue.LongName())
	return rec
}

// checkPriorities requires every band inside [0,100] with a monotone spread
// of at least 10 between adjacent bands.
func checkPriorities(rec *Record, bands []int) {
	if len(bands) == 0 {
		rec.NoGo("Priority Bands (none configured)")
		return
	}
	for _, p := range bands {
		if p < priorityMin || p > priorityMax {
			rec.NoGo("Priority Bands (out of range: %d)", p)
			return
		}
	}
	for i := 1; i < len(bands); i++ {
		if bands[i]-bands[i-1] < prioritySpreadMin {
			rec.NoGo("Priority Bands (spread below %d between %d and %d)",
				prioritySpreadMin, bands[i-1], bands[i])
			return
		}
	}
	rec.Go("Priority Bands (%d configured)", len(bands))
}

func checkRange(rec *Record, label string, value, low, high int, unit string) {
	if value < low || value > high {
		rec.NoGo("%s (out of range: %d %s)", label, value, unit)
		return
	}
	rec.Go("%s (%d %s)", label, value, unit)
}

func checkMotionLimit(rec *Record, label string, value float64) {
	if value <= 0 {
		rec.NoGo("%s (must be positive: %g)", label, value)
		return
	}
	rec.Go("%s (%g)", label, value)
}
