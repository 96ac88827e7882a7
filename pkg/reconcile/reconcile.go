// Package reconcile applies a DiffResult to the target tree.
package reconcile

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/storage"
)

// ProgressFunc is called after every action
type ProgressFunc func(result models.ActionResult)

// Reconciler converges the target tree toward the source tree. Every entry
// is an independent action: a failure is recorded and the batch goes on.
type Reconciler struct {
	source   *storage.Tree
	target   *storage.Tree
	copier   *storage.Copier
	logger   logging.Logger
	progress ProgressFunc
}

// NewReconciler creates a reconciler writing to target
func NewReconciler(source, target *storage.Tree, copier *storage.Copier, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Reconciler{
		source: source,
		target: target,
		copier: copier,
		logger: logger,
	}
}

// SetProgressCallback sets a callback invoked after each action
func (r *Reconciler) SetProgressCallback(fn ProgressFunc) {
	r.progress = fn
}

// Apply processes the sets of diff in order: modified, source-only files,
// source-only directories, target-only files, target-only directories and
// finally type conflicts. Each set is cleared once processed. Cancelling ctx
// stops before the next action and marks the report cancelled.
func (r *Reconciler) Apply(ctx context.Context, diff *models.DiffResult) *models.ReconcileReport {
	report := &models.ReconcileReport{
		SourcePath: r.source.Root(),
		TargetPath: r.target.Root(),
		StartTime:  time.Now(),
		Skipped:    diff.Skipped,
	}
	report.Stats.Differences = diff.Count()
	report.Stats.Skipped = len(diff.Skipped)

	for _, category := range models.Categories() {
		for _, entry := range diff.Set(category) {
			if ctx.Err() != nil {
				break
			}
			r.record(ctx, report, r.apply(ctx, entry, category))
		}
		diff.Clear(category)
	}

	for _, conflict := range diff.TypeConflicts {
		if ctx.Err() != nil {
			break
		}
		r.record(ctx, report, r.replace(ctx, conflict))
	}
	diff.Clear(models.CategoryTypeConflict)

	report.Finish(time.Now())
	if ctx.Err() != nil {
		report.Status = models.StatusCancelled
	}
	return report
}

func (r *Reconciler) apply(ctx context.Context, entry models.Entry, category models.Category) models.ActionResult {
	rel := entry.RelativePath()
	return r.run(entry, category, models.ActionFor(category), func() (int64, error) {
		switch category {
		case models.CategoryModified, models.CategorySourceOnlyFile:
			return r.copier.CopyFile(ctx, r.source, r.target, rel)
		case models.CategorySourceOnlyDir:
			return r.copier.CopyTree(ctx, r.source, r.target, rel)
		case models.CategoryTargetOnlyFile:
			return 0, r.target.Remove(rel)
		default:
			return 0, r.target.RemoveAll(rel)
		}
	})
}

// replace resolves a type conflict in favour of the source: the target
// object is removed and the source object copied in its place
func (r *Reconciler) replace(ctx context.Context, conflict models.TypeConflict) models.ActionResult {
	rel := conflict.Entry.RelativePath()
	return r.run(conflict.Entry, models.CategoryTypeConflict, models.ActionReplace, func() (int64, error) {
		if conflict.SourceIsDir() {
			if err := r.target.Remove(rel); err != nil {
				return 0, err
			}
			return r.copier.CopyTree(ctx, r.source, r.target, rel)
		}
		if err := r.target.RemoveAll(rel); err != nil {
			return 0, err
		}
		return r.copier.CopyFile(ctx, r.source, r.target, rel)
	})
}

// run executes one action, turning a panic into a failed result
func (r *Reconciler) run(entry models.Entry, category models.Category, action models.Action, fn func() (int64, error)) models.ActionResult {
	result := models.ActionResult{Entry: entry, Category: category, Action: action}
	start := time.Now()

	var pc panics.Catcher
	pc.Try(func() {
		result.Bytes, result.Err = fn()
	})
	if recovered := pc.Recovered(); recovered != nil {
		result.Err = models.TransientIOError.Wrap(recovered.AsError())
	}
	if result.Err != nil {
		result.Err = models.ClassifyIOError(result.Err)
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Reconciler) record(ctx context.Context, report *models.ReconcileReport, result models.ActionResult) {
	fields := logging.Fields{
		"path":   result.Entry.RelativePath(),
		"action": string(result.Action),
	}
	if result.Failed() {
		r.logger.Error(ctx, "Action failed", result.Err, fields)
	} else {
		fields["bytes"] = result.Bytes
		r.logger.Debug(ctx, "Action completed", fields)
	}

	report.Record(result)
	if r.progress != nil {
		r.progress(result)
	}
}
