package output

import (
	"io"
	"os"
	"time"

	"github.com/zeebo/errs"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// Reporter receives the results of a sync cycle.
// Implementations include human-readable and JSON console output, the
// audit log file and a progress bar.
type Reporter interface {
	// ReportDiff is called once the comparison of a cycle is complete,
	// before any change is applied
	ReportDiff(cycleID string, at time.Time, diff *models.DiffResult) error

	// ReportAction is called after each reconcile action
	ReportAction(result models.ActionResult) error

	// ReportResult is called when the cycle is complete
	ReportResult(report *models.ReconcileReport) error

	// Name returns the reporter name
	Name() string
}

// Multi fans every call out to several reporters
type Multi []Reporter

// ReportDiff forwards to every reporter
func (m Multi) ReportDiff(cycleID string, at time.Time, diff *models.DiffResult) error {
	var group errs.Group
	for _, r := range m {
		group.Add(r.ReportDiff(cycleID, at, diff))
	}
	return group.Err()
}

// ReportAction forwards to every reporter
func (m Multi) ReportAction(result models.ActionResult) error {
	var group errs.Group
	for _, r := range m {
		group.Add(r.ReportAction(result))
	}
	return group.Err()
}

// ReportResult forwards to every reporter
func (m Multi) ReportResult(report *models.ReconcileReport) error {
	var group errs.Group
	for _, r := range m {
		group.Add(r.ReportResult(report))
	}
	return group.Err()
}

// Name returns the reporter name
func (m Multi) Name() string {
	return "multi"
}

// ConsoleOptions selects the console reporters
type ConsoleOptions struct {
	Format   string // "human" or "json"
	Progress bool
	Quiet    bool
	Writer   io.Writer
}

// NewConsole builds the console reporter for a format. With Progress set
// and a terminal attached, per-action lines are replaced by a progress bar.
func NewConsole(opts ConsoleOptions) (Reporter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	if opts.Quiet {
		w = io.Discard
	}

	switch opts.Format {
	case "json":
		return NewJSONReporter(w), nil
	case "human", "":
		human := NewHumanReporter(w)
		if opts.Progress && !opts.Quiet && IsTerminal(w) {
			human.ShowActions = false
			return Multi{human, NewProgressReporter(w)}, nil
		}
		return human, nil
	default:
		return nil, models.ConfigError.New("unknown output format %q (want human or json)", opts.Format)
	}
}
