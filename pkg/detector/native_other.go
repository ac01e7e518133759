//go:build !windows && !linux && !darwin

package detector

import (
	"github.com/actionsum/hostprobe/pkg/integrations/fallback"
	"github.com/actionsum/hostprobe/pkg/probe"
)

func newNative(Options) probe.Probe {
	return fallback.New()
}
