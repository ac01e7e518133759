// Package commontest provides a scripted common.Runner for backend tests.
package commontest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Response is the scripted result of one command line
type Response struct {
	Output string
	Err    error
}

// FakeRunner answers commands from a script keyed by the full command line
// ("name arg1 arg2"). Unscripted commands fail.
type FakeRunner struct {
	mu        sync.Mutex
	Responses map[string]Response
	// Installed lists commands LookPath reports as present. A nil map
	// reports every scripted command as present.
	Installed map[string]bool
	Calls     []string
}

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: make(map[string]Response)}
}

// On scripts the output of a command line
func (f *FakeRunner) On(cmdline, output string) *FakeRunner {
	f.Responses[cmdline] = Response{Output: output}
	return f
}

// Fail scripts a failing command line
func (f *FakeRunner) Fail(cmdline string, err error) *FakeRunner {
	f.Responses[cmdline] = Response{Err: err}
	return f
}

// Run implements common.Runner
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	f.Calls = append(f.Calls, cmdline)
	resp, ok := f.Responses[cmdline]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unscripted command: %s", cmdline)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return []byte(resp.Output), nil
}

// LookPath implements common.Runner
func (f *FakeRunner) LookPath(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Installed != nil {
		return f.Installed[name]
	}
	for cmdline := range f.Responses {
		if cmdline == name || strings.HasPrefix(cmdline, name+" ") {
			return true
		}
	}
	return false
}

// Called reports whether cmdline was run
func (f *FakeRunner) Called(cmdline string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.Calls {
		if c == cmdline {
			return true
		}
	}
	return false
}
