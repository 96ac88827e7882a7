package config

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dirmirror/pkg/logging"
	"github.com/sdejongh/dirmirror/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Sync        SyncConfig        `yaml:"sync" mapstructure:"sync"`
	Schedule    ScheduleConfig    `yaml:"schedule" mapstructure:"schedule"`
	Performance PerformanceConfig `yaml:"performance" mapstructure:"performance"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// SyncConfig holds sync-related settings
type SyncConfig struct {
	Comparison models.ComparisonMethod `yaml:"comparison" mapstructure:"comparison"`
	Exclude    []string                `yaml:"exclude" mapstructure:"exclude"`
	LogName    string                  `yaml:"log_name" mapstructure:"log_name"` // audit log base name, ".txt" is appended
}

// ScheduleConfig holds the polling interval
type ScheduleConfig struct {
	Interval string `yaml:"interval" mapstructure:"interval"` // positive decimal number
	Unit     string `yaml:"unit" mapstructure:"unit"`         // "m", "h" or "d"
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int    `yaml:"buffer_size" mapstructure:"buffer_size"`
	BandwidthLimit string `yaml:"bandwidth_limit" mapstructure:"bandwidth_limit"` // e.g. "10MB", empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`     // "human" or "json"
	Progress bool   `yaml:"progress" mapstructure:"progress"` // Show a progress bar
	Quiet    bool   `yaml:"quiet" mapstructure:"quiet"`       // Suppress non-error output
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
	File   string `yaml:"file" mapstructure:"file"`     // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Comparison: models.CompareShallow,
			Exclude:    []string{},
			LogName:    "Logfile",
		},
		Schedule: ScheduleConfig{
			Interval: "1",
			Unit:     string(models.UnitMinutes),
		},
		Performance: PerformanceConfig{
			BufferSize: 65536,
		},
		Output: OutputConfig{
			Format: "human",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return models.ConfigError.Wrap(err)
	}
	return nil
}

func (c *Config) validate() error {
	valid := false
	for _, m := range models.ComparisonMethods() {
		if c.Sync.Comparison == m {
			valid = true
		}
	}
	if !valid {
		return &models.ValidationError{
			Field:   "sync.comparison",
			Message: "must be one of shallow, binary, hash, md5, namesize",
		}
	}

	if strings.TrimSpace(c.Sync.LogName) == "" {
		return &models.ValidationError{Field: "sync.log_name", Message: "must not be empty"}
	}

	if _, err := models.ParseInterval(c.Schedule.Interval, c.Schedule.Unit); err != nil {
		return &models.ValidationError{Field: "schedule", Message: err.Error()}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := c.BandwidthBytes(); err != nil {
		return &models.ValidationError{Field: "performance.bandwidth_limit", Message: err.Error()}
	}

	if c.Output.Format != "human" && c.Output.Format != "json" {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	if f := logging.Format(c.Logging.Format); f != logging.FormatText && f != logging.FormatJSON {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'text' or 'json'",
		}
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// BandwidthBytes parses the bandwidth limit into bytes per second.
// An empty or "0" limit means unlimited.
func (c *Config) BandwidthBytes() (int64, error) {
	return ParseBandwidth(c.Performance.BandwidthLimit)
}

// ParseBandwidth parses a human readable rate such as "10MB" or "512KiB".
// A plain number is taken as bytes per second.
func ParseBandwidth(s string) (int64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "/s")
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, models.ConfigError.New("invalid bandwidth limit %q", s)
	}
	return int64(n), nil
}
