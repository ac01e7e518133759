package cli

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionsum/hostprobe/internal/models"
	"github.com/actionsum/hostprobe/pkg/probe"
)

func newIdleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "idle",
		Short: "Print milliseconds since the last keyboard or mouse input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, err := a.probe.IdleTimeMs()
			if err != nil {
				a.logger.Warn("idle query failed", "error", err)
				return err
			}
			out, err := a.reporter.Idle(ms)
			return a.print(cmd, out, err)
		},
	}
}

func newWindowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Print the title of the foreground window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			title, err := a.probe.ActiveWindowTitle()
			if err != nil {
				return err
			}
			out, err := a.reporter.Window(title)
			return a.print(cmd, out, err)
		},
	}
}

func newLockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the workstation",
		Long:  "Ask the operating system to lock the interactive session. A declined request is reported, not treated as an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, lockErr := a.probe.LockWorkstation()

			res := &models.LockResult{
				Timestamp: time.Now(),
				Platform:  runtime.GOOS,
				Locked:    ok,
			}
			if lockErr != nil {
				res.Error = lockErr.Error()
			}
			if !ok && lockErr == nil {
				a.logger.Info("lock request declined")
			}

			out, renderErr := a.reporter.Lock(res)
			if err := a.print(cmd, out, renderErr); err != nil {
				return err
			}
			return lockErr
		},
	}
}

func newCapsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Show which operations this platform supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter.Capabilities(probe.CapabilitiesOf(a.probe, runtime.GOOS))
			return a.print(cmd, out, err)
		},
	}
}

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Read idle time, the foreground title and capabilities once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := models.TakeSnapshot(a.probe, probe.CapabilitiesOf(a.probe, runtime.GOOS))
			out, err := a.reporter.Snapshot(snap)
			return a.print(cmd, out, err)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s version %s\n", appName, Version)
			fmt.Fprintf(out, "  commit: %s\n", Commit)
			fmt.Fprintf(out, "  built:  %s\n", Date)
			fmt.Fprintf(out, "  target: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
