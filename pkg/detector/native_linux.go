//go:build linux

package detector

import (
	"os"

	"github.com/actionsum/hostprobe/pkg/integrations/common"
	"github.com/actionsum/hostprobe/pkg/integrations/hybrid"
	"github.com/actionsum/hostprobe/pkg/probe"
)

func newNative(opts Options) probe.Probe {
	return hybrid.NewDetector(common.NewExecRunner(opts.CommandTimeout), os.Getenv, opts.LockCommands)
}
