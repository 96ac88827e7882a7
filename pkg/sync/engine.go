// Package sync runs compare-and-reconcile cycles and schedules them.
package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/output"
	"github.com/sdejongh/dirmirror/pkg/reconcile"
)

// Differ produces the classified differences between the two trees
type Differ interface {
	Compare(ctx context.Context) (*models.DiffResult, error)
}

// Applier reconciles the target tree with a DiffResult
type Applier interface {
	Apply(ctx context.Context, diff *models.DiffResult) *models.ReconcileReport
}

type progressSetter interface {
	SetProgressCallback(fn reconcile.ProgressFunc)
}

// Cycle runs one full comparison followed by one reconciliation. It keeps
// no state between runs.
type Cycle struct {
	operation models.SyncOperation
	differ    Differ
	applier   Applier
	reporter  output.Reporter
	logger    logging.Logger
	now       func() time.Time
}

// NewCycle creates a sync cycle. When the applier accepts a progress
// callback, every action is forwarded to the reporter.
func NewCycle(
	operation models.SyncOperation,
	differ Differ,
	applier Applier,
	reporter output.Reporter,
	logger logging.Logger,
) *Cycle {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	c := &Cycle{
		operation: operation,
		differ:    differ,
		applier:   applier,
		reporter:  reporter,
		logger:    logger,
		now:       time.Now,
	}
	if ps, ok := applier.(progressSetter); ok {
		ps.SetProgressCallback(func(result models.ActionResult) {
			if err := reporter.ReportAction(result); err != nil {
				logger.Warn(context.Background(), "Failed to report action: "+err.Error(), nil)
			}
		})
	}
	return c
}

// RunOnce compares both trees, reports the differences, applies them unless
// the operation is a dry run and reports the outcome. Only a comparison
// that cannot start (a missing root, cancellation) returns an error; failed
// actions are part of the report.
func (c *Cycle) RunOnce(ctx context.Context) (*models.ReconcileReport, error) {
	cycleID := uuid.NewString()
	start := c.now()
	logger := c.logger.WithFields(logging.Fields{"cycle_id": cycleID})

	logger.Info(ctx, "Starting sync cycle", logging.Fields{
		"source":  c.operation.SourcePath,
		"target":  c.operation.TargetPath,
		"dry_run": c.operation.DryRun,
	})

	result, err := c.differ.Compare(ctx)
	if err != nil {
		logger.Error(ctx, "Comparison failed", err, nil)
		return nil, err
	}

	if err := c.reporter.ReportDiff(cycleID, start, result); err != nil {
		logger.Error(ctx, "Failed to report differences", err, nil)
	}

	var report *models.ReconcileReport
	if c.operation.DryRun {
		report = &models.ReconcileReport{DryRun: true, Skipped: result.Skipped}
		report.Stats.Differences = result.Count()
		report.Stats.Skipped = len(result.Skipped)
		report.Finish(c.now())
	} else {
		report = c.applier.Apply(ctx, result)
	}

	report.CycleID = cycleID
	report.SourcePath = c.operation.SourcePath
	report.TargetPath = c.operation.TargetPath
	report.StartTime = start
	report.Duration = report.EndTime.Sub(start)

	if err := c.reporter.ReportResult(report); err != nil {
		logger.Error(ctx, "Failed to report result", err, nil)
	}

	logger.Info(ctx, "Sync cycle completed", logging.Fields{
		"status":      string(report.Status),
		"differences": report.Stats.Differences,
		"failed":      report.Stats.Failed,
		"skipped":     report.Stats.Skipped,
		"bytes":       report.Stats.BytesTransferred,
		"duration":    report.Duration.String(),
	})
	return report, nil
}
