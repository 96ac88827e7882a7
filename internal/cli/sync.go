package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirmirror/pkg/config"
	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
	"github.com/sdejongh/dirmirror/pkg/output"
	"github.com/sdejongh/dirmirror/pkg/sync"
)

type runMode int

const (
	modeRun runMode = iota
	modeOnce
	modeCompare
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	f := &MirrorFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mirror source into target at a fixed interval",
		Long: `Compare source and target, make target an exact copy of source, then
sleep for the interval and start over. Runs until interrupted or until the
--cycles limit is reached.`,
		Example: "  dirmirror run -s ./photos -t /mnt/backup/photos -i 30 -u m",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(cmd, f, modeRun)
		},
	}

	addMirrorFlags(cmd, f)
	cmd.Flags().IntVar(&f.Cycles, "cycles", 0, "stop after N cycles (0 = run until interrupted)")

	return cmd
}

// NewOnceCommand creates the once command
func NewOnceCommand() *cobra.Command {
	f := &MirrorFlags{}
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single mirror cycle",
		Long:  `Compare source and target once, apply the differences and exit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(cmd, f, modeOnce)
		},
	}

	addMirrorFlags(cmd, f)

	return cmd
}

func runMirror(cmd *cobra.Command, f *MirrorFlags, mode runMode) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cmd, cfg, f)

	operation, err := createSyncOperation(cfg, f, mode == modeCompare)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	reporter, err := createReporter(cmd, cfg, operation, mode)
	if err != nil {
		return err
	}

	cycle, err := sync.New(*operation, reporter, logger)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Mirror configured", logging.Fields{
		"operation_id": operation.ID,
		"source":       operation.SourcePath,
		"target":       operation.TargetPath,
		"interval":     operation.Interval.String(),
		"comparison":   string(operation.ComparisonMethod),
		"dry_run":      operation.DryRun,
	})

	if mode != modeRun {
		report, err := cycle.RunOnce(ctx)
		if err != nil {
			return err
		}
		return statusError(report)
	}

	scheduler := sync.NewScheduler(cycle, operation.Interval, operation.MaxCycles, logger)
	if err := scheduler.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	return statusError(scheduler.Last())
}

// createLogger creates the diagnostic logger. Without a log file the
// output goes to stderr.
func createLogger(cfg *config.Config) (logging.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     logging.Format(cfg.Logging.Format),
		File:       cfg.Logging.File,
		MaxSize:    logging.DefaultMaxSize,
		MaxBackups: logging.DefaultMaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// createReporter combines the console output with the audit log. Dry runs
// change nothing and leave the audit log untouched.
func createReporter(cmd *cobra.Command, cfg *config.Config, op *models.SyncOperation, mode runMode) (output.Reporter, error) {
	console, err := output.NewConsole(output.ConsoleOptions{
		Format:   cfg.Output.Format,
		Progress: cfg.Output.Progress,
		Quiet:    cfg.Output.Quiet,
		Writer:   cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, err
	}
	if mode == modeCompare {
		return console, nil
	}
	return output.Multi{console, output.NewAuditLog(op.LogFile())}, nil
}

// ExitError carries the process exit code of a finished sync
type ExitError struct {
	Code   int
	Status models.SyncStatus
	Failed int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("sync finished with status %s (%d failed actions)", e.Status, e.Failed)
}

func statusError(report *models.ReconcileReport) error {
	if report == nil {
		return nil
	}
	code := report.Status.ExitCode()
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code, Status: report.Status, Failed: report.Stats.Failed}
}

// ExitCode maps an error returned by a command to the process exit code.
// Startup errors such as a missing root or an invalid interval exit with 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return models.StatusCancelled.ExitCode()
	}
	if models.IsStartupError(err) {
		return 2
	}
	return 1
}
