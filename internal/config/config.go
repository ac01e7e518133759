package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/actionsum/hostprobe/pkg/detector"
)

// Config holds all application configuration
type Config struct {
	// Probe configuration
	Probe ProbeConfig `yaml:"probe"`

	// Output configuration
	Output OutputConfig `yaml:"output"`

	// Log configuration
	Log LogConfig `yaml:"log"`
}

// ProbeConfig holds settings for the command-driven backends
type ProbeConfig struct {
	CommandTimeout    time.Duration `yaml:"command_timeout"` // Bound on each helper command
	MinCommandTimeout time.Duration `yaml:"-"`
	MaxCommandTimeout time.Duration `yaml:"-"`
	LockCommands      [][]string    `yaml:"lock_commands"` // Replaces the built-in lock candidates
}

// OutputConfig holds CLI output configuration
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "json" or "yaml"
}

// LogConfig holds diagnostic logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn" or "error"
	Format string `yaml:"format"` // "text" or "json"
}

var (
	outputFormats = []string{"text", "json", "yaml"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
)

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Probe: ProbeConfig{
			CommandTimeout:    3 * time.Second,
			MinCommandTimeout: 100 * time.Millisecond,
			MaxCommandTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Probe.CommandTimeout < c.Probe.MinCommandTimeout {
		return fmt.Errorf("command timeout (%v) cannot be less than minimum (%v)",
			c.Probe.CommandTimeout, c.Probe.MinCommandTimeout)
	}

	if c.Probe.CommandTimeout > c.Probe.MaxCommandTimeout {
		return fmt.Errorf("command timeout (%v) cannot be greater than maximum (%v)",
			c.Probe.CommandTimeout, c.Probe.MaxCommandTimeout)
	}

	for i, cmd := range c.Probe.LockCommands {
		if len(cmd) == 0 || strings.TrimSpace(cmd[0]) == "" {
			return fmt.Errorf("lock command %d is empty", i)
		}
	}

	if !oneOf(c.Output.Format, outputFormats) {
		return fmt.Errorf("output format must be one of %s, got %q", strings.Join(outputFormats, ", "), c.Output.Format)
	}

	if !oneOf(c.Log.Level, logLevels) {
		return fmt.Errorf("log level must be one of %s, got %q", strings.Join(logLevels, ", "), c.Log.Level)
	}

	if !oneOf(c.Log.Format, logFormats) {
		return fmt.Errorf("log format must be one of %s, got %q", strings.Join(logFormats, ", "), c.Log.Format)
	}

	return nil
}

// SetCommandTimeout sets the helper command timeout with validation
func (c *Config) SetCommandTimeout(timeout time.Duration) error {
	if timeout < c.Probe.MinCommandTimeout {
		return fmt.Errorf("command timeout cannot be less than %v", c.Probe.MinCommandTimeout)
	}
	if timeout > c.Probe.MaxCommandTimeout {
		return fmt.Errorf("command timeout cannot be greater than %v", c.Probe.MaxCommandTimeout)
	}
	c.Probe.CommandTimeout = timeout
	return nil
}

// SetOutputFormat sets the output format with validation
func (c *Config) SetOutputFormat(format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if !oneOf(format, outputFormats) {
		return fmt.Errorf("output format must be one of %s, got %q", strings.Join(outputFormats, ", "), format)
	}
	c.Output.Format = format
	return nil
}

// ProbeOptions converts the probe settings for detector.NewWithOptions
func (c *Config) ProbeOptions() detector.Options {
	return detector.Options{
		CommandTimeout: c.Probe.CommandTimeout,
		LockCommands:   c.Probe.LockCommands,
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	lock := "built-in"
	if len(c.Probe.LockCommands) > 0 {
		parts := make([]string, len(c.Probe.LockCommands))
		for i, cmd := range c.Probe.LockCommands {
			parts[i] = strings.Join(cmd, " ")
		}
		lock = strings.Join(parts, "; ")
	}

	return fmt.Sprintf(`Configuration:
  Probe:
    Command Timeout: %v
    Lock Commands: %s
  Output:
    Format: %s
  Log:
    Level: %s
    Format: %s`,
		c.Probe.CommandTimeout,
		lock,
		c.Output.Format,
		c.Log.Level,
		c.Log.Format,
	)
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
