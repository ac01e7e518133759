// Package darwin implements the host probe on macOS through the system's
// command-line tools. It has no cgo dependency, so the parsing and command
// selection build and test on every OS.
package darwin

import (
	"context"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/actionsum/hostprobe/pkg/integrations/common"
	"github.com/actionsum/hostprobe/pkg/probe"
)

// CGSessionPath is the legacy fast-user-switching tool that suspends the session
const CGSessionPath = "/System/Library/CoreServices/Menu Extras/User.menu/Contents/Resources/CGSession"

// DefaultLockCommands are tried in order until one succeeds
var DefaultLockCommands = [][]string{
	{CGSessionPath, "-suspend"},
	{"osascript", "-e", `tell application "System Events" to keystroke "q" using {control down, command down}`},
	{"pmset", "displaysleepnow"},
}

// frontWindowScript prints the frontmost app name followed by its front
// window name, or the app name alone when it has no titled window
const frontWindowScript = `tell application "System Events"
	set p to first process whose frontmost is true
	set appName to name of p
	try
		set winName to name of front window of p
	on error
		set winName to ""
	end try
	if winName is "" then
		return appName
	end if
	return appName & " — " & winName
end tell`

var hidIdleTimeRe = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// Detector implements probe.Probe for macOS
type Detector struct {
	runner       common.Runner
	lockCommands [][]string
}

// NewDetector creates a macOS detector. A nil or empty lockCommands
// selects DefaultLockCommands.
func NewDetector(runner common.Runner, lockCommands [][]string) *Detector {
	if len(lockCommands) == 0 {
		lockCommands = DefaultLockCommands
	}
	return &Detector{runner: runner, lockCommands: lockCommands}
}

// IdleTimeMs reads HIDIdleTime (nanoseconds) from the IOHIDSystem registry entry
func (d *Detector) IdleTimeMs() (uint64, error) {
	output, err := d.runner.Run(context.Background(), "ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "ioreg IOHIDSystem failed")
	}

	nanos, err := parseHIDIdleTime(string(output))
	if err != nil {
		return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "unexpected ioreg output")
	}
	return nanos / 1_000_000, nil
}

// parseHIDIdleTime returns the first HIDIdleTime value in ioreg output
func parseHIDIdleTime(output string) (uint64, error) {
	match := hidIdleTimeRe.FindStringSubmatch(output)
	if match == nil {
		return 0, errors.New("HIDIdleTime not found")
	}
	nanos, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse HIDIdleTime")
	}
	return nanos, nil
}

// ActiveWindowTitle asks System Events for the frontmost app and its front
// window. Missing Automation permission or a failing osascript give "".
func (d *Detector) ActiveWindowTitle() (string, error) {
	output, err := d.runner.Run(context.Background(), "osascript", "-e", frontWindowScript)
	if err != nil {
		return "", nil
	}

	title := strings.TrimSpace(string(output))
	if strings.Contains(strings.ToLower(title), "not authorized") {
		return "", nil
	}
	return strings.ToValidUTF8(title, "�"), nil
}

// LockWorkstation runs the lock commands in order and reports whether one
// succeeded
func (d *Detector) LockWorkstation() (bool, error) {
	ctx := context.Background()

	for _, cmd := range d.lockCommands {
		if len(cmd) == 0 || !d.available(cmd[0]) {
			continue
		}
		if _, err := d.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
			log.Printf("Lock command %q failed: %v", cmd[0], err)
			continue
		}
		return true, nil
	}

	return false, nil
}

// available resolves absolute paths by stat and bare names through PATH
func (d *Detector) available(name string) bool {
	if strings.HasPrefix(name, "/") {
		_, err := os.Stat(name)
		return err == nil
	}
	return d.runner.LookPath(name)
}

// Capabilities reports which helper tools are present
func (d *Detector) Capabilities() probe.Capabilities {
	caps := probe.Capabilities{
		Platform:     "darwin",
		Backend:      "darwin",
		IdleTime:     d.runner.LookPath("ioreg"),
		ActiveWindow: d.runner.LookPath("osascript"),
	}
	for _, cmd := range d.lockCommands {
		if len(cmd) > 0 && d.available(cmd[0]) {
			caps.LockWorkstation = true
			break
		}
	}
	caps.Native = caps.IdleTime || caps.ActiveWindow || caps.LockWorkstation
	return caps
}
