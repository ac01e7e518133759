package models

import (
	"time"

	"github.com/actionsum/hostprobe/pkg/probe"
)

// Snapshot is one reading of every query operation. A failed query leaves
// its value zero and records the failure text instead.
type Snapshot struct {
	Timestamp    time.Time          `json:"timestamp" yaml:"timestamp"`
	Capabilities probe.Capabilities `json:"capabilities" yaml:"capabilities"`
	IdleMs       uint64             `json:"idle_ms" yaml:"idle_ms"`
	IdleError    string             `json:"idle_error,omitempty" yaml:"idle_error,omitempty"`
	WindowTitle  string             `json:"window_title" yaml:"window_title"`
	WindowError  string             `json:"window_error,omitempty" yaml:"window_error,omitempty"`
}

// LockResult records the outcome of a lock request
type LockResult struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Platform  string    `json:"platform" yaml:"platform"`
	Locked    bool      `json:"locked" yaml:"locked"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// TakeSnapshot queries p once for idle time and the foreground title
func TakeSnapshot(p probe.Probe, caps probe.Capabilities) *Snapshot {
	snap := &Snapshot{
		Timestamp:    time.Now(),
		Capabilities: caps,
	}

	if idle, err := p.IdleTimeMs(); err != nil {
		snap.IdleError = err.Error()
	} else {
		snap.IdleMs = idle
	}

	if title, err := p.ActiveWindowTitle(); err != nil {
		snap.WindowError = err.Error()
	} else {
		snap.WindowTitle = title
	}

	return snap
}
