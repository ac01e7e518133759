package common

import (
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// DefaultCommandTimeout bounds every helper command a backend shells out to
const DefaultCommandTimeout = 3 * time.Second

// Runner executes helper commands for command-driven backends
type Runner interface {
	// Run executes name with args and returns its standard output.
	// A non-zero exit status is an error.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports whether name resolves to an executable
	LookPath(name string) bool
}

// ExecRunner runs commands through os/exec with a per-command timeout
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner creates an ExecRunner; a non-positive timeout selects
// DefaultCommandTimeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &ExecRunner{Timeout: timeout}
}

// Run executes the command and returns its standard output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrapf(ctx.Err(), "%s timed out after %v", name, timeout)
		}
		return nil, errors.Wrapf(err, "failed to execute %s", name)
	}
	return output, nil
}

// LookPath checks if a command is available in PATH
func (r *ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Session is a display-server specific source of idle time and focus
type Session interface {
	IdleTimeMs() (uint64, error)
	ActiveWindowTitle() (string, error)

	// DisplayServer returns "x11" or "wayland"
	DisplayServer() string

	// SupportsIdle and SupportsTitle report whether the session can
	// actually serve each query right now
	SupportsIdle() bool
	SupportsTitle() bool
}
