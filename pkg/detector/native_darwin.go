//go:build darwin

package detector

import (
	"github.com/actionsum/hostprobe/pkg/integrations/common"
	"github.com/actionsum/hostprobe/pkg/integrations/darwin"
	"github.com/actionsum/hostprobe/pkg/probe"
)

func newNative(opts Options) probe.Probe {
	return darwin.NewDetector(common.NewExecRunner(opts.CommandTimeout), opts.LockCommands)
}
