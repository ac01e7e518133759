package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadFromEnv and Load
const (
	EnvConfigFile     = "HOSTPROBE_CONFIG"
	EnvCommandTimeout = "HOSTPROBE_COMMAND_TIMEOUT"
	EnvLockCommand    = "HOSTPROBE_LOCK_COMMAND"
	EnvOutputFormat   = "HOSTPROBE_OUTPUT_FORMAT"
	EnvLogLevel       = "HOSTPROBE_LOG_LEVEL"
	EnvLogFormat      = "HOSTPROBE_LOG_FORMAT"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Probe configuration
	if timeout := os.Getenv(EnvCommandTimeout); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil && ms > 0 {
			d := time.Duration(ms) * time.Millisecond
			if d >= cfg.Probe.MinCommandTimeout && d <= cfg.Probe.MaxCommandTimeout {
				cfg.Probe.CommandTimeout = d
			}
		}
	}

	if lockCmd := parseLockCommand(os.Getenv(EnvLockCommand)); len(lockCmd) > 0 {
		cfg.Probe.LockCommands = [][]string{lockCmd}
	}

	// Output configuration
	if format := os.Getenv(EnvOutputFormat); format != "" {
		_ = cfg.SetOutputFormat(format)
	}

	// Log configuration
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}

	if format := os.Getenv(EnvLogFormat); format != "" {
		cfg.Log.Format = strings.ToLower(format)
	}
}

// parseLockCommand splits a lock command line on whitespace. A value
// starting with "[" is read as a YAML flow list so that arguments may
// contain spaces, e.g. ["/path with spaces/CGSession", "-suspend"].
func parseLockCommand(value string) []string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "[") {
		return strings.Fields(value)
	}

	var args []string
	if err := yaml.Unmarshal([]byte(value), &args); err != nil {
		return nil
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil
	}
	return args
}

// LoadFile merges a YAML configuration file into cfg
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return nil
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}

// Load creates a Config from defaults, a YAML file and then the
// environment. An empty path falls back to HOSTPROBE_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
