package output

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/zeebo/errs"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// AuditLog appends one plain-text block per cycle to a file. The differences
// are written as soon as the comparison completes, before any change is
// applied; failed actions and the closing blank line follow when the cycle
// ends. The file is only open while a part of the block is being written.
type AuditLog struct {
	path string

	mu   sync.Mutex
	open bool // a block was started and not yet closed
}

// NewAuditLog creates an audit log writing to path
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// Path returns the log file path
func (l *AuditLog) Path() string {
	return l.path
}

// ReportDiff appends the header and the five difference sets
func (l *AuditLog) ReportDiff(_ string, at time.Time, diff *models.DiffResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := &bytes.Buffer{}
	fmt.Fprintf(w, "###############Sync on %s at %s###############\n", at.Format("02/01/2006"), at.Format("15:04:05"))

	writeSection(w, "Modified File(s):", diff.Modified, func(e models.Entry) string {
		return fmt.Sprintf("%s found in %s and %s", e.Name, e.SourceParent, e.TargetParent)
	})
	writeSection(w, "File(s) only in Source:", diff.SourceOnlyFiles, foundInSource)
	writeSection(w, "File(s) only in Target:", diff.TargetOnlyFiles, foundInTarget)
	writeSection(w, "Dir(s) only in Source:", diff.SourceOnlyDirs, foundInSource)
	writeSection(w, "Dir(s) only in Target:", diff.TargetOnlyDirs, foundInTarget)

	if len(diff.TypeConflicts) > 0 {
		fmt.Fprintf(w, "Type Conflict(s):\n")
		for _, c := range diff.TypeConflicts {
			fmt.Fprintf(w, "%s found in %s and %s (%s)\n", c.Entry.Name, c.Entry.SourceParent, c.Entry.TargetParent, c.Type)
		}
	}
	if len(diff.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped:\n")
		for _, s := range diff.Skipped {
			if s.Err != nil {
				fmt.Fprintf(w, "%s (%s: %v)\n", s.Entry.RelativePath(), s.Reason, s.Err)
			} else {
				fmt.Fprintf(w, "%s (%s)\n", s.Entry.RelativePath(), s.Reason)
			}
		}
	}

	if err := l.append(w.Bytes()); err != nil {
		return err
	}
	l.open = true
	return nil
}

// ReportAction does nothing; failures are written with the block
func (l *AuditLog) ReportAction(models.ActionResult) error {
	return nil
}

// ReportResult closes the block started by ReportDiff
func (l *AuditLog) ReportResult(report *models.ReconcileReport) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.open {
		return nil
	}
	l.open = false

	w := &bytes.Buffer{}
	if failures := report.Failures(); len(failures) > 0 {
		fmt.Fprintf(w, "Failed Action(s):\n")
		for _, f := range failures {
			fmt.Fprintf(w, "%s (%s): %v\n", f.Entry.RelativePath(), f.Action, f.Err)
		}
	}
	fmt.Fprintf(w, "\n")

	return l.append(w.Bytes())
}

// Name returns the reporter name
func (l *AuditLog) Name() string {
	return "auditlog"
}

func (l *AuditLog) append(block []byte) (err error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer func() { err = errs.Combine(err, f.Close()) }()

	if _, err := f.Write(block); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func writeSection(w *bytes.Buffer, title string, entries []models.Entry, line func(models.Entry) string) {
	fmt.Fprintf(w, "%s\n", title)
	if len(entries) == 0 {
		fmt.Fprintf(w, "None\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\n", line(e))
	}
}

func foundInSource(e models.Entry) string {
	return fmt.Sprintf("%s found in %s", e.Name, e.SourceParent)
}

func foundInTarget(e models.Entry) string {
	return fmt.Sprintf("%s found in %s", e.Name, e.TargetParent)
}
