package detector

import (
	"os"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/actionsum/hostprobe/pkg/probe"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil probe")
	}

	caps := probe.CapabilitiesOf(p, runtime.GOOS)
	t.Logf("Backend: %s (native: %v)", caps.Backend, caps.Native)

	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		if caps.Platform != runtime.GOOS {
			t.Errorf("Platform = %q, want %q", caps.Platform, runtime.GOOS)
		}
	}
}

func TestNewWithOptions(t *testing.T) {
	p := NewWithOptions(Options{
		CommandTimeout: 500 * time.Millisecond,
		LockCommands:   [][]string{{"true"}},
	})
	if p == nil {
		t.Fatal("NewWithOptions() returned nil probe")
	}
}

func TestReadOperations(t *testing.T) {
	idle, err := IdleTimeMs()
	if err != nil {
		if !probe.IsQueryFailed(err) {
			t.Errorf("IdleTimeMs() error = %v, want a QueryError", err)
		}
		t.Logf("IdleTimeMs() failed (expected without a desktop session): %v", err)
	} else {
		t.Logf("Idle: %d ms", idle)
	}

	title, err := ActiveWindowTitle()
	if err != nil {
		t.Errorf("ActiveWindowTitle() error: %v", err)
	}
	t.Logf("Window: %q", title)

	caps := Capabilities()
	t.Logf("Capabilities: %+v", caps)
}

func TestDefaultProbeIsShared(t *testing.T) {
	var wg sync.WaitGroup
	probes := make([]probe.Probe, 8)
	for i := range probes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			probes[i] = active()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(probes); i++ {
		if probes[i] != probes[0] {
			t.Fatal("active() returned different probes")
		}
	}
}

// TestIdleAccumulates needs a real desktop session left untouched for the
// duration of the test.
func TestIdleAccumulates(t *testing.T) {
	if os.Getenv("HOSTPROBE_E2E") != "1" {
		t.Skip("set HOSTPROBE_E2E=1 and leave keyboard and mouse alone to run")
	}

	caps := Capabilities()
	if !caps.IdleTime {
		t.Skipf("idle time not supported by backend %s", caps.Backend)
	}

	const wait = 5 * time.Second
	const tolerance = 2 * time.Second

	time.Sleep(wait)

	idle, err := IdleTimeMs()
	if err != nil {
		t.Fatalf("IdleTimeMs() error: %v", err)
	}
	if idle < uint64(wait.Milliseconds()) {
		t.Errorf("IdleTimeMs() = %d, want at least %d", idle, wait.Milliseconds())
	}
	if idle >= uint64((wait + tolerance).Milliseconds()) {
		t.Logf("IdleTimeMs() = %d exceeds tolerance; was the session already idle?", idle)
	}
}
