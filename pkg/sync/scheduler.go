package sync

import (
	"context"
	"time"

	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
)

// Runner runs a single cycle
type Runner interface {
	RunOnce(ctx context.Context) (*models.ReconcileReport, error)
}

// Scheduler runs cycles one after the other, sleeping for the interval
// after each cycle completes. A slow cycle delays the next one; cycles never
// overlap and are never queued.
type Scheduler struct {
	runner    Runner
	interval  time.Duration
	maxCycles int
	logger    logging.Logger

	last *models.ReconcileReport
}

// NewScheduler creates a scheduler. maxCycles of 0 runs until ctx is done.
func NewScheduler(runner Runner, interval time.Duration, maxCycles int, logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Scheduler{
		runner:    runner,
		interval:  interval,
		maxCycles: maxCycles,
		logger:    logger,
	}
}

// Run loops until ctx is cancelled or the cycle limit is reached. Errors of
// a single cycle are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for cycle := 1; ; cycle++ {
		report, err := s.runner.RunOnce(ctx)
		if ctx.Err() != nil {
			s.logger.Info(ctx, "Scheduler stopped", logging.Fields{"cycles": cycle})
			return nil
		}
		if err != nil {
			s.logger.Error(ctx, "Sync cycle failed, retrying at next interval", err, logging.Fields{"cycle": cycle})
		} else {
			s.last = report
		}

		if s.maxCycles > 0 && cycle >= s.maxCycles {
			return nil
		}

		s.logger.Debug(ctx, "Sleeping until next cycle", logging.Fields{"interval": s.interval.String()})
		if !sleep(ctx, s.interval) {
			s.logger.Info(ctx, "Scheduler stopped", logging.Fields{"cycles": cycle})
			return nil
		}
	}
}

// Last returns the report of the last successful cycle
func (s *Scheduler) Last() *models.ReconcileReport {
	return s.last
}

// sleep waits for d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
