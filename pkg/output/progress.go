package output

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// progressTemplate shows the action counter, bar, bytes written and elapsed time
const progressTemplate pb.ProgressBarTemplate = `{{counters . }} {{bar . }} {{percent . }} {{string . "bytes"}} {{etime . }}`

// ProgressReporter draws a progress bar over the reconcile actions of a cycle
type ProgressReporter struct {
	writer io.Writer

	mu    sync.Mutex
	bar   *pb.ProgressBar
	bytes int64
}

// NewProgressReporter creates a progress bar reporter
func NewProgressReporter(writer io.Writer) *ProgressReporter {
	return &ProgressReporter{writer: writer}
}

// ReportDiff starts a bar sized to the number of pending actions
func (r *ProgressReporter) ReportDiff(_ string, _ time.Time, diff *models.DiffResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finish()
	r.bytes = 0
	if diff.IsEmpty() {
		return nil
	}

	r.bar = progressTemplate.New(diff.Count()).
		SetWriter(r.writer).
		SetRefreshRate(200 * time.Millisecond).
		Set("bytes", formatBytes(0))
	r.bar.Start()
	return nil
}

// ReportAction advances the bar
func (r *ProgressReporter) ReportAction(result models.ActionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil {
		return nil
	}
	r.bytes += result.Bytes
	r.bar.Set("bytes", formatBytes(r.bytes))
	r.bar.Increment()
	return nil
}

// ReportResult stops the bar
func (r *ProgressReporter) ReportResult(*models.ReconcileReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finish()
	return nil
}

// Name returns the reporter name
func (r *ProgressReporter) Name() string {
	return "progress"
}

func (r *ProgressReporter) finish() {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
