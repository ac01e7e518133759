package win32

import (
	"unicode/utf16"

	"github.com/actionsum/hostprobe/pkg/probe"
)

// maxTitleUnits caps the UTF-16 buffer allocated for a window title.
// GetWindowTextLengthW may over-report and titles are never this long.
const maxTitleUnits = 1 << 15

// Probe implements probe.Probe for Windows
type Probe struct {
	api API
}

// NewProbe creates a Windows probe backed by api
func NewProbe(api API) *Probe {
	return &Probe{api: api}
}

// IdleTimeMs returns the milliseconds since the last input event.
// A failing GetLastInputInfo is the one condition reported as an error.
func (p *Probe) IdleTimeMs() (uint64, error) {
	last, err := p.api.LastInputTick()
	if err != nil {
		return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "GetLastInputInfo failed")
	}

	now := p.api.TickCount64()
	return probe.ElapsedMillis(now, extendTick(now, last)), nil
}

// extendTick places the 32-bit dwTime into the 64-bit tick domain of now.
// dwTime wraps every ~49.7 days while GetTickCount64 does not, so the
// candidate in now's 2^32 window is moved back one window when it lies
// ahead of now.
func extendTick(now uint64, last uint32) uint64 {
	ext := now&^0xFFFFFFFF | uint64(last)
	if ext > now && now >= 1<<32 {
		ext -= 1 << 32
	}
	return ext
}

// ActiveWindowTitle returns the foreground window title, "" when there is
// no foreground window or it has no title.
func (p *Probe) ActiveWindowTitle() (string, error) {
	hwnd := p.api.ForegroundWindow()
	if hwnd == 0 {
		return "", nil
	}

	n := p.api.WindowTextLength(hwnd)
	if n <= 0 {
		return "", nil
	}
	if n > maxTitleUnits {
		n = maxTitleUnits
	}

	buf := make([]uint16, n+1)
	copied := p.api.WindowText(hwnd, buf)
	if copied <= 0 {
		return "", nil
	}
	if copied > n {
		copied = n
	}

	return decodeUTF16(buf[:copied]), nil
}

// decodeUTF16 converts s up to its first NUL. Unpaired surrogates become
// U+FFFD.
func decodeUTF16(s []uint16) string {
	for i, v := range s {
		if v == 0 {
			s = s[:i]
			break
		}
	}
	return string(utf16.Decode(s))
}

// LockWorkstation requests a session lock. A declined request is false,
// never an error.
func (p *Probe) LockWorkstation() (bool, error) {
	return p.api.LockWorkStation(), nil
}

// Capabilities reports full native support
func (p *Probe) Capabilities() probe.Capabilities {
	return probe.Capabilities{
		Platform:        "windows",
		Backend:         "win32",
		Native:          true,
		IdleTime:        true,
		ActiveWindow:    true,
		LockWorkstation: true,
	}
}
