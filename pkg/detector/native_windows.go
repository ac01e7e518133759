//go:build windows

package detector

import (
	"github.com/actionsum/hostprobe/pkg/integrations/win32"
	"github.com/actionsum/hostprobe/pkg/probe"
)

func newNative(Options) probe.Probe {
	return win32.NewProbe(win32.SystemAPI())
}
