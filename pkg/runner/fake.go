package runner

import (
	"context"
	"sync"
)

// Call records one invocation made through a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner records invocations and returns scripted results. It is used by
// tests in place of real scraper and thumbnail binaries.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call

	// Err is returned for every invocation when ErrFor is nil.
	Err error
	// ErrFor, when set, decides the result per invocation.
	ErrFor func(name string, args []string) error
	// OnRun, when set, runs side effects (e.g. creating fake output files).
	OnRun func(name string, args []string)
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if f.OnRun != nil {
		f.OnRun(name, args)
	}
	if f.ErrFor != nil {
		return f.ErrFor(name, args)
	}
	return f.Err
}

// Calls returns a copy of all recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns recorded invocations of the given binary.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
