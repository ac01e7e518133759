// Package detector is the entry point callers use. The concrete probe is
// bound per target OS by build constraints (native_*.go); there is no
// runtime platform switch.
package detector

import (
	"runtime"
	"sync"
	"time"

	"github.com/actionsum/hostprobe/pkg/probe"
)

// Options tunes the command-driven backends (Linux, macOS). Zero values
// select each backend's defaults. The Windows and fallback probes ignore them.
type Options struct {
	// CommandTimeout bounds every helper command
	CommandTimeout time.Duration

	// LockCommands replaces the backend's ordered lock candidates
	LockCommands [][]string
}

// New returns the probe for the OS this binary was built for
func New() probe.Probe {
	return newNative(Options{})
}

// NewWithOptions returns the native probe configured with opts
func NewWithOptions(opts Options) probe.Probe {
	return newNative(opts)
}

var (
	defaultOnce  sync.Once
	defaultProbe probe.Probe
)

func active() probe.Probe {
	defaultOnce.Do(func() {
		defaultProbe = New()
	})
	return defaultProbe
}

// IdleTimeMs queries the default probe
func IdleTimeMs() (uint64, error) {
	return active().IdleTimeMs()
}

// ActiveWindowTitle queries the default probe
func ActiveWindowTitle() (string, error) {
	return active().ActiveWindowTitle()
}

// LockWorkstation asks the default probe to lock the session
func LockWorkstation() (bool, error) {
	return active().LockWorkstation()
}

// Capabilities describes the default probe
func Capabilities() probe.Capabilities {
	return probe.CapabilitiesOf(active(), runtime.GOOS)
}
