package models

import (
	"time"
)

// ActionResult is the outcome of one reconcile action on one entry
type ActionResult struct {
	Entry    Entry
	Category Category
	Action   Action
	Err      error
	Bytes    int64
	Duration time.Duration
}

// Failed reports whether the action did not complete
func (r ActionResult) Failed() bool {
	return r.Err != nil
}

// ReconcileReport represents the results of one sync cycle
type ReconcileReport struct {
	CycleID    string
	SourcePath string
	TargetPath string
	DryRun     bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Per-entry outcomes in reconcile order
	Results []ActionResult

	// Entries the comparison could not classify
	Skipped []SkippedEntry

	// Overall status
	Status SyncStatus
}

// Statistics holds per-cycle counters
type Statistics struct {
	Differences      int   `json:"differences"` // entries needing an action, as found by the comparison
	FilesOverwritten int   `json:"files_overwritten"`
	FilesCopied      int   `json:"files_copied"`
	DirsCopied       int   `json:"dirs_copied"`
	FilesDeleted     int   `json:"files_deleted"`
	DirsDeleted      int   `json:"dirs_deleted"`
	Replaced         int   `json:"replaced"`
	Failed           int   `json:"failed"`
	Skipped          int   `json:"skipped"`
	BytesTransferred int64 `json:"bytes_transferred"`
}

// Record appends a result and updates the counters
func (r *ReconcileReport) Record(result ActionResult) {
	r.Results = append(r.Results, result)
	if result.Failed() {
		r.Stats.Failed++
		return
	}

	r.Stats.BytesTransferred += result.Bytes
	switch result.Action {
	case ActionOverwrite:
		r.Stats.FilesOverwritten++
	case ActionCopy:
		r.Stats.FilesCopied++
	case ActionCopyTree:
		r.Stats.DirsCopied++
	case ActionDelete:
		r.Stats.FilesDeleted++
	case ActionDeleteTree:
		r.Stats.DirsDeleted++
	case ActionReplace:
		r.Stats.Replaced++
	}
}

// Failures returns the results that carry an error
func (r *ReconcileReport) Failures() []ActionResult {
	var failed []ActionResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Finish stamps the end time and derives the overall status
func (r *ReconcileReport) Finish(end time.Time) {
	r.EndTime = end
	r.Duration = end.Sub(r.StartTime)

	switch {
	case r.Stats.Failed == 0:
		r.Status = StatusSuccess
	case r.Stats.Failed == len(r.Results):
		r.Status = StatusFailed
	default:
		r.Status = StatusPartial
	}
}

// SyncStatus represents the overall result
type SyncStatus string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess SyncStatus = "success"
	// StatusPartial indicates some operations failed
	StatusPartial SyncStatus = "partial"
	// StatusFailed indicates the sync operation failed
	StatusFailed SyncStatus = "failed"
	// StatusCancelled indicates the operation was cancelled
	StatusCancelled SyncStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the sync status
func (s SyncStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
