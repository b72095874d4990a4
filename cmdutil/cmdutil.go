// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmdutil runs the external helper programs that registration
// backends depend on (xdg-mime, update-desktop-database) and reports their
// exit status and output in a form callers can keep for diagnostics.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its combined output.
// Implementations must return a *CommandError when the program ran and
// exited non-zero.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// CommandError describes a failed external command.
type CommandError struct {
	// Command is the program and its arguments.
	Command []string
	// ExitCode is the process exit status, or -1 when it never started.
	ExitCode int
	// Output is the combined stdout and stderr.
	Output string
	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed", strings.Join(e.Command, " "))
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// DefaultRunner is the Runner used when callers do not provide one.
var DefaultRunner Runner = ExecRunner{}

// Run runs a command and returns its combined output.
// The command inherits environment variables from the parent process.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, newCommandError(name, args, output, err)
	}

	return output, nil
}

// LookPath searches PATH for name.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func newCommandError(name string, args []string, output []byte, err error) *CommandError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &CommandError{
		Command:  append([]string{name}, args...),
		ExitCode: exitCode,
		Output:   string(output),
		Err:      err,
	}
}
