package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// section describes how one difference set is printed
type section struct {
	category models.Category
	title    string
	active   string // printed before the first action of the set
	idle     string // printed when the set is empty
}

// sections lists the five sets in reconcile order
var sections = []section{
	{models.CategoryModified, "Modified File(s):", "Copy and overwrite modified File(s)", "No modified File(s) to overwrite"},
	{models.CategorySourceOnlyFile, "File(s) only in Source:", "Copy File(s) only in Source", "No new File(s) to update"},
	{models.CategorySourceOnlyDir, "Dir(s) only in Source:", "Copy Dir(s) only in Source", "No new Dir(s) to update"},
	{models.CategoryTargetOnlyFile, "File(s) only in Target:", "Delete File(s) in Target", "No redundant File(s) in target"},
	{models.CategoryTargetOnlyDir, "Dir(s) only in Target:", "Delete Dir(s) in Target", "No redundant Dir(s) in target"},
}

// HumanReporter prints cycle results in human-readable format
type HumanReporter struct {
	writer io.Writer

	// ShowActions prints one line per reconcile action
	ShowActions bool

	counts   map[models.Category]int
	lastSeen models.Category
}

// NewHumanReporter creates a new human-readable reporter
func NewHumanReporter(writer io.Writer) *HumanReporter {
	return &HumanReporter{writer: writer, ShowActions: true}
}

// ReportDiff prints the five difference sets, "None" for empty ones
func (r *HumanReporter) ReportDiff(cycleID string, at time.Time, diff *models.DiffResult) error {
	r.counts = make(map[models.Category]int)
	r.lastSeen = ""

	fmt.Fprintf(r.writer, "\nSync cycle %s started at %s\n", cycleID, at.Format("2006-01-02 15:04:05"))
	for _, s := range sections {
		entries := diff.Set(s.category)
		r.counts[s.category] = len(entries)

		fmt.Fprintf(r.writer, "\n%s\n", s.title)
		if len(entries) == 0 {
			fmt.Fprintf(r.writer, "None\n")
			continue
		}
		for _, e := range entries {
			fmt.Fprintf(r.writer, "%s %s %s\n", e.Name, e.SourceParent, e.TargetParent)
		}
	}

	if len(diff.TypeConflicts) > 0 {
		r.counts[models.CategoryTypeConflict] = len(diff.TypeConflicts)
		fmt.Fprintf(r.writer, "\nType Conflict(s):\n")
		for _, c := range diff.TypeConflicts {
			fmt.Fprintf(r.writer, "%s %s (%s)\n", c.Entry.Name, c.Entry.TargetParent, c.Type)
		}
	}
	if len(diff.Skipped) > 0 {
		fmt.Fprintf(r.writer, "\nSkipped:\n")
		for _, s := range diff.Skipped {
			fmt.Fprintf(r.writer, "%s (%s)\n", s.Entry.RelativePath(), s.Reason)
		}
	}
	fmt.Fprintf(r.writer, "\n")
	return nil
}

// ReportAction prints a phase header on the first action of a set, then
// one line per action
func (r *HumanReporter) ReportAction(result models.ActionResult) error {
	if result.Category != r.lastSeen {
		r.lastSeen = result.Category
		fmt.Fprintf(r.writer, "%s\n", phaseTitle(result.Category))
	}
	if !r.ShowActions {
		return nil
	}

	if result.Failed() {
		fmt.Fprintf(r.writer, "  ✗ %s: %v\n", result.Entry.RelativePath(), result.Err)
		return nil
	}
	if result.Bytes > 0 {
		fmt.Fprintf(r.writer, "  ✓ %s (%s)\n", result.Entry.RelativePath(), formatBytes(result.Bytes))
	} else {
		fmt.Fprintf(r.writer, "  ✓ %s\n", result.Entry.RelativePath())
	}
	return nil
}

// ReportResult prints the idle message of every empty set and the summary
func (r *HumanReporter) ReportResult(report *models.ReconcileReport) error {
	if report.DryRun {
		fmt.Fprintf(r.writer, "Dry run: no changes applied\n")
	} else {
		for _, s := range sections {
			if r.counts[s.category] == 0 {
				fmt.Fprintf(r.writer, "%s\n", s.idle)
			}
		}
	}

	stats := report.Stats
	fmt.Fprintf(r.writer, "\n")
	fmt.Fprintf(r.writer, "Cycle completed in %s\n", formatDuration(report.Duration))
	fmt.Fprintf(r.writer, "  Differences:        %d\n", stats.Differences)
	fmt.Fprintf(r.writer, "  Files overwritten:  %d\n", stats.FilesOverwritten)
	fmt.Fprintf(r.writer, "  Files copied:       %d\n", stats.FilesCopied)
	fmt.Fprintf(r.writer, "  Dirs copied:        %d\n", stats.DirsCopied)
	fmt.Fprintf(r.writer, "  Files deleted:      %d\n", stats.FilesDeleted)
	fmt.Fprintf(r.writer, "  Dirs deleted:       %d\n", stats.DirsDeleted)
	if stats.Replaced > 0 {
		fmt.Fprintf(r.writer, "  Type conflicts:     %d\n", stats.Replaced)
	}
	fmt.Fprintf(r.writer, "  Skipped:            %d\n", stats.Skipped)
	fmt.Fprintf(r.writer, "  Failed:             %d\n", stats.Failed)
	fmt.Fprintf(r.writer, "  Data:               %s\n", formatBytes(stats.BytesTransferred))
	fmt.Fprintf(r.writer, "Status: %s\n", report.Status)

	if failures := report.Failures(); len(failures) > 0 {
		fmt.Fprintf(r.writer, "\nErrors:\n")
		for _, f := range failures {
			fmt.Fprintf(r.writer, "  %s (%s): %v\n", f.Entry.RelativePath(), f.Action, f.Err)
		}
	}
	return nil
}

// Name returns the reporter name
func (r *HumanReporter) Name() string {
	return "human"
}

func phaseTitle(category models.Category) string {
	for _, s := range sections {
		if s.category == category {
			return s.active
		}
	}
	return "Replace conflicting entries in Target"
}
