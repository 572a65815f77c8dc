// Package runnertest provides scripted runner.Runner and runner.Lookup fakes.
package runnertest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/arthur-debert/gitboot/pkg/types"
)

// Response is a canned reply for commands matching a prefix.
type Response struct {
	Result types.CommandResult
	Err    error
	// Effect runs before the reply is returned, e.g. to put a binary on
	// the fake PATH once an install "succeeded".
	Effect func(cmd types.Command)
}

// OK is a successful response with the given stdout.
func OK(stdout string) Response {
	return Response{Result: types.CommandResult{Stdout: []byte(stdout)}}
}

// Exit is a response with the given exit code and stderr.
func Exit(code int, stderr string) Response {
	return Response{Result: types.CommandResult{ExitCode: code, Stderr: []byte(stderr)}}
}

// FakeRunner records every command and replies from a prefix table.
// Commands with no matching prefix succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []types.Command
	prefixes  []string
	responses map[string]Response
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// On registers resp for commands whose joined argv starts with prefix.
// The longest matching prefix wins.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.responses[prefix]; !exists {
		f.prefixes = append(f.prefixes, prefix)
	}
	f.responses[prefix] = resp
	return f
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd types.Command) (types.CommandResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	resp, ok := f.match(cmd.String())
	f.mu.Unlock()

	if !ok {
		return types.CommandResult{}, nil
	}
	if resp.Effect != nil {
		resp.Effect(cmd)
	}
	return resp.Result, resp.Err
}

func (f *FakeRunner) match(line string) (Response, bool) {
	best := ""
	found := false
	for _, p := range f.prefixes {
		if strings.HasPrefix(line, p) && (!found || len(p) > len(best)) {
			best = p
			found = true
		}
	}
	if !found {
		return Response{}, false
	}
	return f.responses[best], true
}

// Calls returns a copy of the recorded commands.
func (f *FakeRunner) Calls() []types.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Lines returns the recorded commands joined as strings.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many recorded commands start with prefix.
func (f *FakeRunner) Count(prefix string) int {
	n := 0
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// FakeLookup is an in-memory PATH.
type FakeLookup struct {
	mu      sync.Mutex
	present map[string]string
}

// NewFakeLookup creates a PATH containing names.
func NewFakeLookup(names ...string) *FakeLookup {
	l := &FakeLookup{present: make(map[string]string)}
	for _, n := range names {
		l.Add(n)
	}
	return l
}

// Add puts name on the fake PATH.
func (l *FakeLookup) Add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.present[name] = "/fake/bin/" + name
}

// Remove takes name off the fake PATH.
func (l *FakeLookup) Remove(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.present, name)
}

// LookPath implements runner.Lookup.
func (l *FakeLookup) LookPath(name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.present[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Installs returns an Effect that adds name to the lookup.
func Installs(l *FakeLookup, name string) func(types.Command) {
	return func(types.Command) { l.Add(name) }
}

// Errorf builds a start failure response.
func Errorf(format string, args ...interface{}) Response {
	return Response{Result: types.CommandResult{ExitCode: -1}, Err: fmt.Errorf(format, args...)}
}
