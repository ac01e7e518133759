package hybrid

import (
	"context"
	"log"
	"strings"

	"github.com/actionsum/hostprobe/pkg/integrations/common"
	"github.com/actionsum/hostprobe/pkg/integrations/wayland"
	"github.com/actionsum/hostprobe/pkg/integrations/x11"
	"github.com/actionsum/hostprobe/pkg/probe"
)

// DefaultLockCommands are tried in order until one succeeds
var DefaultLockCommands = [][]string{
	{"loginctl", "lock-session"},
	{"xdg-screensaver", "lock"},
	{"gnome-screensaver-command", "-l"},
	{"dm-tool", "lock"},
	{"qdbus", "org.freedesktop.ScreenSaver", "/ScreenSaver", "Lock"},
	{"qdbus-qt5", "org.freedesktop.ScreenSaver", "/ScreenSaver", "Lock"},
	{"qdbus6", "org.freedesktop.ScreenSaver", "/ScreenSaver", "Lock"},
}

// Detector is the Linux probe. It reads idle time and focus from the
// session's display server and locks through whichever session locker is
// installed.
type Detector struct {
	runner       common.Runner
	session      common.Session
	lockCommands [][]string
}

// NewDetector picks the display-server backend from getenv. A nil or empty
// lockCommands selects DefaultLockCommands.
func NewDetector(runner common.Runner, getenv func(string) string, lockCommands [][]string) *Detector {
	var session common.Session
	switch DetectDisplayServer(getenv) {
	case "wayland":
		session = wayland.NewDetector(runner, getenv)
	case "x11":
		session = x11.NewDetector(getenv("DISPLAY"))
	}
	return newDetector(runner, session, lockCommands)
}

func newDetector(runner common.Runner, session common.Session, lockCommands [][]string) *Detector {
	if len(lockCommands) == 0 {
		lockCommands = DefaultLockCommands
	}
	return &Detector{
		runner:       runner,
		session:      session,
		lockCommands: lockCommands,
	}
}

// DetectDisplayServer returns "wayland", "x11" or "unknown"
func DetectDisplayServer(getenv func(string) string) string {
	sessionType := getenv("XDG_SESSION_TYPE")
	waylandDisplay := getenv("WAYLAND_DISPLAY")
	x11Display := getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}

// DisplayServer returns the backend in use, "none" without a session
func (d *Detector) DisplayServer() string {
	if d.session == nil {
		return "none"
	}
	return d.session.DisplayServer()
}

func (d *Detector) IdleTimeMs() (uint64, error) {
	if d.session == nil {
		return 0, probe.QueryFailed(probe.OpIdleTime, "no graphical session (DISPLAY and WAYLAND_DISPLAY unset)")
	}
	return d.session.IdleTimeMs()
}

func (d *Detector) ActiveWindowTitle() (string, error) {
	if d.session == nil {
		return "", nil
	}
	return d.session.ActiveWindowTitle()
}

// LockWorkstation runs the first installed lock command that exits 0.
// When none does, the request was declined.
func (d *Detector) LockWorkstation() (bool, error) {
	ctx := context.Background()

	for _, cmd := range d.lockCommands {
		if len(cmd) == 0 || !d.runner.LookPath(cmd[0]) {
			continue
		}
		if _, err := d.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
			log.Printf("Lock command %q failed: %v", strings.Join(cmd, " "), err)
			continue
		}
		return true, nil
	}

	return false, nil
}

// Capabilities reports which operations the current session can serve
func (d *Detector) Capabilities() probe.Capabilities {
	caps := probe.Capabilities{
		Platform: "linux",
		Backend:  "linux/" + d.DisplayServer(),
	}

	if d.session != nil {
		caps.IdleTime = d.session.SupportsIdle()
		caps.ActiveWindow = d.session.SupportsTitle()
	}

	for _, cmd := range d.lockCommands {
		if len(cmd) > 0 && d.runner.LookPath(cmd[0]) {
			caps.LockWorkstation = true
			break
		}
	}

	caps.Native = caps.IdleTime || caps.ActiveWindow || caps.LockWorkstation
	return caps
}
