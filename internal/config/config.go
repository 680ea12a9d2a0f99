package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MeKo-Tech/celltime/internal/report"
	"github.com/MeKo-Tech/celltime/internal/shell"
)

// DefaultRecordsDir is the records directory used when none is configured.
const DefaultRecordsDir = "data"

// Config represents the complete configuration for celltime.
// It is loaded from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	RecordsDir string `mapstructure:"records_dir" yaml:"records_dir" json:"records_dir"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose    bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Executor ExecutorConfig `mapstructure:"executor" yaml:"executor" json:"executor"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// ExecutorConfig controls how recorded blocks are run.
type ExecutorConfig struct {
	Shell string `mapstructure:"shell" yaml:"shell" json:"shell"`
	Dir   string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// MetricsConfig contains Prometheus export settings.
type MetricsConfig struct {
	// Textfile is the default destination of the export command.
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecordsDir: DefaultRecordsDir,
		LogLevel:   "info",
		Output: OutputConfig{
			Format: "table",
		},
		Executor: ExecutorConfig{
			Shell: shell.DefaultShell,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Output.Format != "" && !slices.Contains(report.Formats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(report.Formats, ", "))
	}

	if strings.TrimSpace(c.RecordsDir) == "" {
		return errors.New("records_dir must not be empty")
	}
	if strings.TrimSpace(c.Executor.Shell) == "" {
		return errors.New("executor.shell must not be empty")
	}

	return nil
}
