package probe

// Operation names reported in QueryError.Op
const (
	OpIdleTime        = "idle_time_ms"
	OpActiveWindow    = "active_window_title"
	OpLockWorkstation = "lock_workstation"
)

// Probe is the capability set every platform backend must satisfy.
// Each call is a one-shot synchronous query; implementations hold no state
// between calls and are safe for concurrent use.
type Probe interface {
	// IdleTimeMs returns the milliseconds elapsed since the last system-wide
	// keyboard or mouse input
	IdleTimeMs() (uint64, error)

	// ActiveWindowTitle returns the title of the foreground window, or an
	// empty string when there is none or it has no title
	ActiveWindowTitle() (string, error)

	// LockWorkstation asks the OS to lock the interactive session and reports
	// whether the request was accepted
	LockWorkstation() (bool, error)
}

// Capabilities describes which operations of a Probe are backed by a real
// OS facility. A fallback probe reports Native=false and callers must not
// treat its neutral values as measurements.
type Capabilities struct {
	Platform        string `json:"platform" yaml:"platform"`
	Backend         string `json:"backend" yaml:"backend"`
	Native          bool   `json:"native" yaml:"native"`
	IdleTime        bool   `json:"idle_time_ms" yaml:"idle_time_ms"`
	ActiveWindow    bool   `json:"active_window_title" yaml:"active_window_title"`
	LockWorkstation bool   `json:"lock_workstation" yaml:"lock_workstation"`
}

// CapabilityReporter is implemented by probes that can describe their backend
type CapabilityReporter interface {
	Capabilities() Capabilities
}

// CapabilitiesOf returns p's capabilities, or a non-native description when
// p does not report any.
func CapabilitiesOf(p Probe, platform string) Capabilities {
	if r, ok := p.(CapabilityReporter); ok {
		return r.Capabilities()
	}
	return Capabilities{Platform: platform, Backend: "unknown"}
}

// ElapsedMillis returns now-last, clamped to 0 when last is ahead of now.
func ElapsedMillis(now, last uint64) uint64 {
	if last >= now {
		return 0
	}
	return now - last
}
