// Package win32 implements the host probe on top of user32 and kernel32.
//
// All pointer and struct marshaling lives in syscall_windows.go behind the
// API interface. Probe only ever sees integers, handles as opaque uintptr
// values and UTF-16 slices it allocated itself, so the decoding and bounds
// logic here builds and runs on every OS.
package win32

// API is the set of Windows primitives the probe needs
type API interface {
	// LastInputTick returns LASTINPUTINFO.dwTime, or an error when
	// GetLastInputInfo returns 0
	LastInputTick() (uint32, error)

	// TickCount64 returns GetTickCount64
	TickCount64() uint64

	// ForegroundWindow returns GetForegroundWindow, 0 when there is none
	ForegroundWindow() uintptr

	// WindowTextLength returns GetWindowTextLengthW for hwnd
	WindowTextLength(hwnd uintptr) int

	// WindowText fills buf through GetWindowTextW and returns the number
	// of UTF-16 units copied, excluding the terminating NUL
	WindowText(hwnd uintptr, buf []uint16) int

	// LockWorkStation returns true when the lock request was accepted
	LockWorkStation() bool
}
