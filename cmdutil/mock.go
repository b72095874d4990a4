// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmdutil

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// MockResult is the canned outcome of a MockRunner command.
type MockResult struct {
	Output   string
	ExitCode int
}

// MockRunner is a mock implementation of Runner for testing. It records every
// call and answers from Results, keyed by the full command line
// ("xdg-mime default a.desktop ...") or by the program name alone.
// Unknown commands succeed with no output.
type MockRunner struct {
	mu sync.Mutex

	// Results maps a command line or program name to its outcome.
	Results map[string]MockResult
	// Missing lists programs LookPath reports as not found.
	Missing map[string]bool
	// Calls holds every command line run, in order.
	Calls [][]string
}

// Run implements Runner.
func (f *MockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := append([]string{name}, args...)
	f.Calls = append(f.Calls, call)

	if f.Missing[name] {
		return nil, &CommandError{Command: call, ExitCode: -1, Err: exec.ErrNotFound}
	}

	res, ok := f.Results[strings.Join(call, " ")]
	if !ok {
		res, ok = f.Results[name]
	}
	if !ok || res.ExitCode == 0 {
		return []byte(res.Output), nil
	}
	return []byte(res.Output), &CommandError{
		Command:  call,
		ExitCode: res.ExitCode,
		Output:   res.Output,
		Err:      errors.New("exit status " + strconv.Itoa(res.ExitCode)),
	}
}

// LookPath implements Runner.
func (f *MockRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Commands returns the recorded calls joined as strings.
func (f *MockRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}
