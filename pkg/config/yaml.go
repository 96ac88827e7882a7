package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sdejongh/dirmirror/pkg/models"
)

// EnvPrefix prefixes environment overrides, e.g. DIRMIRROR_SCHEDULE_UNIT=h
const EnvPrefix = "DIRMIRROR"

// Load reads the configuration from path, or from the default location when
// path is empty. A missing default file is not an error. Environment
// variables override file values; unset keys keep their defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		def, err := DefaultConfigPath()
		if err == nil {
			if _, statErr := os.Stat(def); statErr == nil {
				path = def
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if explicit || !errors.As(err, &notFound) {
				return nil, models.ConfigError.New("failed to read config file %s: %v", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, models.ConfigError.New("unable to decode config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("sync.comparison", string(d.Sync.Comparison))
	v.SetDefault("sync.exclude", d.Sync.Exclude)
	v.SetDefault("sync.log_name", d.Sync.LogName)
	v.SetDefault("schedule.interval", d.Schedule.Interval)
	v.SetDefault("schedule.unit", d.Schedule.Unit)
	v.SetDefault("performance.buffer_size", d.Performance.BufferSize)
	v.SetDefault("performance.bandwidth_limit", d.Performance.BandwidthLimit)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.progress", d.Output.Progress)
	v.SetDefault("output.quiet", d.Output.Quiet)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
}

// Marshal renders the configuration as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".config", "dirmirror", "config.yaml"), nil
}
