package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// JSONReporter writes one JSON object per line for automation and scripting
type JSONReporter struct {
	encoder *json.Encoder
	cycleID string
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	CycleID   string    `json:"cycle_id,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// JSONEntryData represents an entry of a difference set
type JSONEntryData struct {
	Path         string `json:"path"`
	SourceParent string `json:"source_parent,omitempty"`
	TargetParent string `json:"target_parent,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

// JSONDiffData represents the classified comparison of a cycle
type JSONDiffData struct {
	Modified        []JSONEntryData `json:"modified"`
	SourceOnlyFiles []JSONEntryData `json:"source_only_files"`
	SourceOnlyDirs  []JSONEntryData `json:"source_only_dirs"`
	TargetOnlyFiles []JSONEntryData `json:"target_only_files"`
	TargetOnlyDirs  []JSONEntryData `json:"target_only_dirs"`
	TypeConflicts   []JSONEntryData `json:"type_conflicts,omitempty"`
	Skipped         []JSONEntryData `json:"skipped,omitempty"`
}

// JSONActionData represents one reconcile action
type JSONActionData struct {
	Path       string `json:"path"`
	Action     string `json:"action"`
	Bytes      int64  `json:"bytes,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	Status     string            `json:"status"`
	DryRun     bool              `json:"dry_run"`
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Duration   string            `json:"duration"`
	DurationMs int64             `json:"duration_ms"`
	Stats      models.Statistics `json:"stats"`
	Errors     []JSONActionData  `json:"errors,omitempty"`
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer) *JSONReporter {
	return &JSONReporter{encoder: json.NewEncoder(writer)}
}

// ReportDiff emits a "diff" event
func (r *JSONReporter) ReportDiff(cycleID string, at time.Time, diff *models.DiffResult) error {
	r.cycleID = cycleID

	data := JSONDiffData{
		Modified:        entriesData(diff.Modified),
		SourceOnlyFiles: entriesData(diff.SourceOnlyFiles),
		SourceOnlyDirs:  entriesData(diff.SourceOnlyDirs),
		TargetOnlyFiles: entriesData(diff.TargetOnlyFiles),
		TargetOnlyDirs:  entriesData(diff.TargetOnlyDirs),
	}
	for _, c := range diff.TypeConflicts {
		d := entryData(c.Entry)
		d.Detail = string(c.Type)
		data.TypeConflicts = append(data.TypeConflicts, d)
	}
	for _, s := range diff.Skipped {
		d := entryData(s.Entry)
		d.Detail = string(s.Reason)
		data.Skipped = append(data.Skipped, d)
	}

	return r.emit(at, "diff", data)
}

// ReportAction emits an "action" event
func (r *JSONReporter) ReportAction(result models.ActionResult) error {
	return r.emit(time.Now(), "action", actionData(result))
}

// ReportResult emits a "result" event
func (r *JSONReporter) ReportResult(report *models.ReconcileReport) error {
	data := JSONReportData{
		Status:     string(report.Status),
		DryRun:     report.DryRun,
		Source:     report.SourcePath,
		Target:     report.TargetPath,
		Duration:   report.Duration.String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats:      report.Stats,
	}
	for _, f := range report.Failures() {
		data.Errors = append(data.Errors, actionData(f))
	}
	return r.emit(report.EndTime, "result", data)
}

// Name returns the reporter name
func (r *JSONReporter) Name() string {
	return "json"
}

func (r *JSONReporter) emit(at time.Time, eventType string, data any) error {
	return r.encoder.Encode(JSONEvent{
		Timestamp: at,
		Type:      eventType,
		CycleID:   r.cycleID,
		Data:      data,
	})
}

func entriesData(entries []models.Entry) []JSONEntryData {
	out := make([]JSONEntryData, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryData(e))
	}
	return out
}

func entryData(e models.Entry) JSONEntryData {
	return JSONEntryData{
		Path:         e.RelativePath(),
		SourceParent: e.SourceParent,
		TargetParent: e.TargetParent,
		Size:         e.Size,
	}
}

func actionData(result models.ActionResult) JSONActionData {
	d := JSONActionData{
		Path:       result.Entry.RelativePath(),
		Action:     string(result.Action),
		Bytes:      result.Bytes,
		DurationMs: result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		d.Error = result.Err.Error()
	}
	return d
}
