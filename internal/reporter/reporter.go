package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/actionsum/hostprobe/internal/config"
	"github.com/actionsum/hostprobe/internal/models"
	"github.com/actionsum/hostprobe/pkg/probe"
	"github.com/actionsum/hostprobe/pkg/utils"
)

const (
	ruleWidth = 50
	timeFmt   = "2006-01-02 15:04:05"
)

// Reporter renders probe results in the configured output format
type Reporter struct {
	config *config.Config
}

// New creates a new reporter
func New(cfg *config.Config) *Reporter {
	return &Reporter{
		config: cfg,
	}
}

// Snapshot renders a snapshot
func (r *Reporter) Snapshot(snap *models.Snapshot) (string, error) {
	return r.render(snap, func() string { return FormatSnapshotText(snap) })
}

// Capabilities renders a capability report
func (r *Reporter) Capabilities(caps probe.Capabilities) (string, error) {
	return r.render(caps, func() string { return FormatCapabilitiesText(caps) })
}

// Lock renders the outcome of a lock request
func (r *Reporter) Lock(res *models.LockResult) (string, error) {
	return r.render(res, func() string { return FormatLockText(res) })
}

// Idle renders a single idle reading
func (r *Reporter) Idle(ms uint64) (string, error) {
	v := struct {
		IdleMs uint64 `json:"idle_ms" yaml:"idle_ms"`
	}{ms}
	return r.render(v, func() string {
		return fmt.Sprintf("%d ms (%s)\n", ms, utils.FormatIdle(ms))
	})
}

// Window renders a single foreground title reading
func (r *Reporter) Window(title string) (string, error) {
	v := struct {
		WindowTitle string `json:"window_title" yaml:"window_title"`
	}{title}
	return r.render(v, func() string { return title + "\n" })
}

func (r *Reporter) render(v any, text func() string) (string, error) {
	switch r.config.Output.Format {
	case "json":
		return FormatJSON(v)
	case "yaml":
		return FormatYAML(v)
	case "", "text":
		return text(), nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: text, json, yaml)", r.config.Output.Format)
	}
}

// FormatSnapshotText formats a snapshot as human-readable text
func FormatSnapshotText(snap *models.Snapshot) string {
	output := fmt.Sprintf("Host Snapshot - %s\n", snap.Timestamp.Format(timeFmt))
	output += fmt.Sprintf("Platform: %s (%s)\n", snap.Capabilities.Platform, snap.Capabilities.Backend)
	output += rule()

	if snap.IdleError != "" {
		output += fmt.Sprintf("%-16s unavailable (%s)\n", "Idle:", snap.IdleError)
	} else {
		output += fmt.Sprintf("%-16s %s (%d ms)\n", "Idle:", utils.FormatIdle(snap.IdleMs), snap.IdleMs)
	}

	switch {
	case snap.WindowError != "":
		output += fmt.Sprintf("%-16s unavailable (%s)\n", "Active Window:", snap.WindowError)
	case snap.WindowTitle == "":
		output += fmt.Sprintf("%-16s (none)\n", "Active Window:")
	default:
		output += fmt.Sprintf("%-16s %s\n", "Active Window:", truncate(snap.WindowTitle, 60))
	}

	return output
}

// FormatCapabilitiesText formats a capability report as a table
func FormatCapabilitiesText(caps probe.Capabilities) string {
	output := fmt.Sprintf("Platform: %s\n", caps.Platform)
	output += fmt.Sprintf("Backend:  %s\n", caps.Backend)
	output += fmt.Sprintf("Native:   %s\n\n", yesNo(caps.Native))

	output += fmt.Sprintf("%-30s %10s\n", "Operation", "Supported")
	output += rule()
	output += fmt.Sprintf("%-30s %10s\n", probe.OpIdleTime, yesNo(caps.IdleTime))
	output += fmt.Sprintf("%-30s %10s\n", probe.OpActiveWindow, yesNo(caps.ActiveWindow))
	output += fmt.Sprintf("%-30s %10s\n", probe.OpLockWorkstation, yesNo(caps.LockWorkstation))

	return output
}

// FormatLockText formats a lock outcome
func FormatLockText(res *models.LockResult) string {
	switch {
	case res.Error != "":
		return fmt.Sprintf("Lock failed on %s: %s\n", res.Platform, res.Error)
	case res.Locked:
		return fmt.Sprintf("Lock requested on %s at %s\n", res.Platform, res.Timestamp.Format(timeFmt))
	default:
		return fmt.Sprintf("Lock declined on %s\n", res.Platform)
	}
}

// FormatJSON formats v as indented JSON
func FormatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}
	return string(data) + "\n", nil
}

// FormatYAML formats v as YAML
func FormatYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal YAML")
	}
	return string(data), nil
}

func rule() string {
	b := make([]byte, ruleWidth)
	for i := range b {
		b[i] = '-'
	}
	return string(b) + "\n"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncate truncates a string to the specified number of runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
