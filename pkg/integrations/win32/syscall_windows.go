//go:build windows

package win32

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetLastInputInfo     = user32.NewProc("GetLastInputInfo")
	procGetForegroundWindow  = user32.NewProc("GetForegroundWindow")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procLockWorkStation      = user32.NewProc("LockWorkStation")
)

// lastInputInfo mirrors LASTINPUTINFO
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type systemAPI struct{}

// SystemAPI returns the API backed by the running Windows session
func SystemAPI() API {
	return systemAPI{}
}

func (systemAPI) LastInputTick() (uint32, error) {
	if err := procGetLastInputInfo.Find(); err != nil {
		return 0, errors.Wrap(err, "user32 GetLastInputInfo unavailable")
	}

	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	r1, _, callErr := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		if errno, ok := callErr.(windows.Errno); ok && errno != 0 {
			return 0, errno
		}
		return 0, errors.New("GetLastInputInfo returned 0")
	}
	return info.dwTime, nil
}

func (systemAPI) TickCount64() uint64 {
	return uint64(windows.DurationSinceBoot().Milliseconds())
}

func (systemAPI) ForegroundWindow() uintptr {
	if procGetForegroundWindow.Find() != nil {
		return 0
	}
	hwnd, _, _ := procGetForegroundWindow.Call()
	return hwnd
}

func (systemAPI) WindowTextLength(hwnd uintptr) int {
	if hwnd == 0 || procGetWindowTextLengthW.Find() != nil {
		return 0
	}
	r1, _, _ := procGetWindowTextLengthW.Call(hwnd)
	return int(int32(r1))
}

func (systemAPI) WindowText(hwnd uintptr, buf []uint16) int {
	if hwnd == 0 || len(buf) == 0 || procGetWindowTextW.Find() != nil {
		return 0
	}
	r1, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return int(int32(r1))
}

func (systemAPI) LockWorkStation() bool {
	if procLockWorkStation.Find() != nil {
		return false
	}
	r1, _, _ := procLockWorkStation.Call()
	return r1 != 0
}
