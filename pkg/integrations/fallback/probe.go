// Package fallback provides the inert probe used on operating systems
// without a native backend.
package fallback

import (
	"runtime"

	"github.com/actionsum/hostprobe/pkg/probe"
)

// Probe returns neutral values and never fails: zero idle time, an empty
// title and a declined lock. These are defaults, not measurements.
type Probe struct{}

// New creates a fallback probe
func New() *Probe {
	return &Probe{}
}

func (Probe) IdleTimeMs() (uint64, error) {
	return 0, nil
}

func (Probe) ActiveWindowTitle() (string, error) {
	return "", nil
}

func (Probe) LockWorkstation() (bool, error) {
	return false, nil
}

// Capabilities reports no native support
func (Probe) Capabilities() probe.Capabilities {
	return probe.Capabilities{
		Platform: runtime.GOOS,
		Backend:  "fallback",
	}
}
