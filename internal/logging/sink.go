package logging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robbyt/go-loglater"
)

// Severity classifies coordinator events. STATE is ordinary lifecycle
// narration, ALERT is a degraded-but-continuing condition, ERROR is a
// recorded failure.
type Severity int

const (
	SeverityState Severity = iota
	SeverityAlert
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityAlert:
		return "ALERT"
	case SeverityError:
		return "ERROR"
	default:
		return "STATE"
	}
}

func (s Severity) level() slog.Level {
	switch s {
	case SeverityAlert:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sink is the shared structured event sink. Each event carries a category,
// a severity, and a formatted message, and is emitted atomically: a single
// mutex serializes both single events and group playback so multi-line
// sections are never interleaved.
type Sink struct {
	mu      sync.Mutex
	handler slog.Handler
}

// NewSink wraps a slog handler as an event sink.
func NewSink(handler slog.Handler) *Sink {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &Sink{handler: handler}
}

// Emit writes one event.
func (s *Sink) Emit(category string, sev Severity, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logTo(s.handler, category, sev, msg)
}

// Group starts an advisory log group. Events written to the group are
// collected and played back contiguously when the group closes.
func (s *Sink) Group(category string) *Group {
	return &Group{
		sink:      s,
		category:  category,
		collector: loglater.NewLogCollector(nil),
	}
}

// Group is one contiguous multi-line section.
type Group struct {
	sink      *Sink
	category  string
	collector *loglater.LogCollector
}

// State records a STATE-severity line in the group.
func (g *Group) State(msg string) { g.emit(SeverityState, msg) }

// Alert records an ALERT-severity line in the group.
func (g *Group) Alert(msg string) { g.emit(SeverityAlert, msg) }

// Error records an ERROR-severity line in the group.
func (g *Group) Error(msg string) { g.emit(SeverityError, msg) }

func (g *Group) emit(sev Severity, msg string) {
	logTo(g.collector, g.category, sev, msg)
}

// Close plays the collected lines back to the sink as one block.
func (g *Group) Close() {
	g.sink.mu.Lock()
	defer g.sink.mu.Unlock()
	if err := g.collector.PlayLogs(g.sink.handler); err != nil {
		logTo(g.sink.handler, g.category, SeverityError, "log group playback failed: "+err.Error())
	}
}

func logTo(handler slog.Handler, category string, sev Severity, msg string) {
	logger := slog.New(handler)
	logger.LogAttrs(context.Background(), sev.level(), msg,
		slog.String("category", category),
		slog.String("severity", sev.String()),
	)
}
