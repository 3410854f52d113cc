// Package readiness produces Go/No-Go records for each subsystem. The exact
// textual shape of the message lines is a contract with operators: Go and
// No-Go facts align at the same column, and every record ends with exactly
// one Decide line.
package readiness

import "fmt"

// Message line prefixes. The padding widths make the facts line up:
// "Go:" plus six spaces, "No-Go:" plus three, "Decide:" plus two.
const (
	GoPrefix     = "Go:      "
	NoGoPrefix   = "No-Go:   "
	DecidePrefix = "Decide:  "
)

// MaxMessages bounds a record's line count. Records are small; when the
// limit is hit the record truncates with a marker line instead of growing.
const MaxMessages = 24

const truncationMarker = "... (further messages truncated)"

// Record is the outcome of one readiness pass over one subsystem. The first
// message is the subsystem name header; the last is the Decide line.
type Record struct {
	Subsystem string
	Ready     bool

	messages  []string
	noGoSeen  bool
	truncated bool
	decided   bool
}

// NewRecord starts a record with the subsystem name header line.
func NewRecord(name string) *Record {
	r := &Record{
		Subsystem: name,
		messages:  make([]string, 0, MaxMessages),
	}
	r.append(name)
	return r
}

// Go appends a passing precondition fact.
func (r *Record) Go(format string, args ...any) {
	r.append(GoPrefix + fmt.Sprintf(format, args...))
}

// NoGo appends a failing precondition fact and forces the overall decision
// to No-Go.
func (r *Record) NoGo(format string, args ...any) {
	r.noGoSeen = true
	r.append(NoGoPrefix + fmt.Sprintf(format, args...))
}

// FinalizeLaunch records the overall decision and appends the Decide line.
// A record finalizes exactly once; later calls are ignored.
func (r *Record) FinalizeLaunch(longName string) {
	r.finalize("Launch", longName)
}

// FinalizeLanding is FinalizeLaunch for the landing pipeline.
func (r *Record) FinalizeLanding(longName string) {
	r.finalize("Landing", longName)
}

func (r *Record) finalize(verb, longName string) {
	if r.decided {
		return
	}
	r.decided = true
	r.Ready = !r.noGoSeen
	decision := "Go"
	if !r.Ready {
		decision = "No-Go"
	}
	// The Decide line always lands, even on a truncated record.
	line := fmt.Sprintf("%s%s For %s of %s", DecidePrefix, decision, verb, longName)
	if len(r.messages) >= MaxMessages {
		r.messages[MaxMessages-1] = line
		return
	}
	r.messages = append(r.messages, line)
}

// Override forces the decision to No-Go after finalization, used when the
// registration phase discovers a missing dependency provider. The fact is
// inserted before the Decide line and the Decide line is rewritten.
func (r *Record) Override(verb, longName, format string, args ...any) {
	if !r.decided {
		r.NoGo(format, args...)
		return
	}
	r.Ready = false
	fact := NoGoPrefix + fmt.Sprintf(format, args...)
	decide := fmt.Sprintf("%sNo-Go For %s of %s", DecidePrefix, verb, longName)
	if n := len(r.messages); n >= 2 && n < MaxMessages {
		r.messages = append(r.messages[:n-1], fact, decide)
	} else if n >= 2 {
		r.messages[n-2] = fact
		r.messages[n-1] = decide
	}
}

// Messages returns the accumulated lines. The slice is a copy.
func (r *Record) Messages() []string {
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Truncated reports whether the record hit its capacity.
func (r *Record) Truncated() bool {
	return r.truncated
}

func (r *Record) append(line string) {
	// Reserve one slot for the truncation marker and one for Decide.
	if len(r.messages) >= MaxMessages-2 {
		if !r.truncated {
			r.truncated = true
			r.messages = append(r.messages, truncationMarker)
		}
		return
	}
	r.messages = append(r.messages, line)
}
