package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/actionsum/hostprobe/internal/config"
	"github.com/actionsum/hostprobe/internal/logging"
	"github.com/actionsum/hostprobe/internal/reporter"
	"github.com/actionsum/hostprobe/pkg/detector"
	"github.com/actionsum/hostprobe/pkg/probe"
)

// Build metadata, set with -ldflags "-X"
var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)

const appName = "hostprobe"

// probeFactory builds the probe every command talks to
var probeFactory = func(opts detector.Options) probe.Probe {
	return detector.NewWithOptions(opts)
}

// app is the state shared by the subcommands once flags are parsed
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	probe    probe.Probe
	reporter *reporter.Reporter
}

// Execute runs the hostprobe command line and exits 1 on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               appName,
		Short:             "Query idle time and the foreground window, or lock the session",
		Long:              "hostprobe asks the operating system how long the user has been idle, which window has focus, and can lock the workstation.",
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringP("output", "o", "", "Output format: text, json, yaml")
	flags.String("config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Duration("timeout", 0, "Timeout for each helper command")

	root.AddCommand(
		newIdleCmd(a),
		newWindowCmd(a),
		newLockCmd(a),
		newCapsCmd(a),
		newSnapshotCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup resolves configuration in order defaults, file, environment, flags
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()

	path, _ := pf.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if pf.Changed("output") {
		format, _ := pf.GetString("output")
		if err := cfg.SetOutputFormat(format); err != nil {
			return err
		}
	}
	if pf.Changed("log-level") {
		level, _ := pf.GetString("log-level")
		cfg.Log.Level = strings.ToLower(level)
	}
	if pf.Changed("timeout") {
		timeout, _ := pf.GetDuration("timeout")
		if err := cfg.SetCommandTimeout(timeout); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logging.RedirectStdLog(logger)

	a.cfg = cfg
	a.logger = logger
	a.reporter = reporter.New(cfg)
	a.probe = probeFactory(cfg.ProbeOptions())

	logger.Debug("probe ready",
		"command_timeout", cfg.Probe.CommandTimeout,
		"output", cfg.Output.Format)
	return nil
}

func (a *app) print(cmd *cobra.Command, out string, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
