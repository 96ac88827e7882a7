package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirmirror/pkg/config"
	"github.com/sdejongh/dirmirror/pkg/models"
)

// loadConfig loads configuration from the --config file or the default location
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with the flags set on the command line
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, f *MirrorFlags) {
	flags := cmd.Flags()

	if flags.Changed("interval") {
		cfg.Schedule.Interval = f.Interval
	}
	if flags.Changed("unit") {
		cfg.Schedule.Unit = f.Unit
	}
	if flags.Changed("log") {
		cfg.Sync.LogName = f.LogName
	}
	if flags.Changed("comparison") {
		cfg.Sync.Comparison = models.ComparisonMethod(f.Comparison)
	}
	if flags.Changed("exclude") {
		cfg.Sync.Exclude = append(append([]string{}, cfg.Sync.Exclude...), f.Exclude...)
	}
	if flags.Changed("output") {
		cfg.Output.Format = f.Output
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = f.Progress
	}
	if flags.Changed("bandwidth") {
		cfg.Performance.BandwidthLimit = f.Bandwidth
	}

	applyGlobalFlags(cfg)
}

func applyGlobalFlags(cfg *config.Config) {
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}

	// Enable progress and debug logs in verbose mode
	if globalFlags.Verbose {
		cfg.Output.Progress = true
		if globalFlags.LogLevel == "" {
			cfg.Logging.Level = "debug"
		}
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
		if globalFlags.LogLevel == "" {
			cfg.Logging.Level = "error"
		}
	}
}

// createSyncOperation freezes the configuration into the record handed to
// the sync cycle and the scheduler
func createSyncOperation(cfg *config.Config, f *MirrorFlags, dryRun bool) (*models.SyncOperation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval, err := models.ParseInterval(cfg.Schedule.Interval, cfg.Schedule.Unit)
	if err != nil {
		return nil, err
	}

	bandwidth, err := cfg.BandwidthBytes()
	if err != nil {
		return nil, err
	}

	operation := &models.SyncOperation{
		ID:               uuid.NewString(),
		SourcePath:       f.Source,
		TargetPath:       f.Target,
		Interval:         interval,
		LogName:          cfg.Sync.LogName,
		ComparisonMethod: cfg.Sync.Comparison,
		ExcludePatterns:  cfg.Sync.Exclude,
		DryRun:           dryRun,
		MaxCycles:        f.Cycles,
		BandwidthLimit:   bandwidth,
		BufferSize:       cfg.Performance.BufferSize,
		CreatedAt:        time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, models.ConfigError.Wrap(fmt.Errorf("invalid sync operation: %w", err))
	}

	return operation, nil
}
