package launch

import (
	"fmt"
	"time"

	"github.com/atlanticdynamic/hydrogen/internal/fancy"
	"github.com/atlanticdynamic/hydrogen/internal/registry"
	"github.com/atlanticdynamic/hydrogen/internal/registry/finitestate"
	"github.com/atlanticdynamic/hydrogen/internal/subsystem"
)

// reviewPhase emits the final per-subsystem status and a styled tree for
// interactive terminals.
func (o *Orchestrator) reviewPhase(result *Result) {
	group := o.sink.Group(Category)
	group.State("REVIEW")

	snapshot := o.reg.Snapshot()
	byName := make(map[string]registry.SubsystemView, len(snapshot))
	for _, view := range snapshot {
		byName[view.Name] = view
	}

	tree := fancy.ReviewTree("Launch Review")
	for _, kind := range subsystem.LaunchOrder() {
		rec := result.Records[kind]
		view, registered := byName[kind.String()]

		var status, detail string
		switch {
		case registered && view.State == finitestate.StatusRunning:
			status = "Running"
			detail = fmt.Sprintf("%s, %d threads",
				formatUptime(time.Since(view.StateChangedAt)), view.ThreadCount)
		case registered && view.State == finitestate.StatusStarting:
			status = "Launching"
		case registered && view.State == finitestate.StatusError:
			status = "Failed"
		case registered:
			status = "Pending"
		case rec != nil && rec.Ready:
			status = "Ready"
		default:
			continue
		}

		line := status + ": " + kind.String()
		if detail != "" {
			line += " (" + detail + ")"
		}
		if status == "Failed" {
			group.Error(line)
		} else {
			group.State(line)
		}
		tree.Child(fancy.StatusNode(kind.String(), status, detail))
	}
	group.Close()

	o.logger.Debug("Launch review rendered", "tree", tree.String())
}

// formatUptime renders a running time as HH:MM:SS.
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
