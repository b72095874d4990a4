package cmdutil

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// "go version" works cross-platform
	out, err := ExecRunner{}.Run(ctx, "go", "version")
	require.NoError(t, err)
	assert.Contains(t, string(out), "go version")
}

func TestExecRunnerExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ExecRunner{}.Run(ctx, "sh", "-c", "echo boom >&2; exit 3")

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr), "expected *CommandError, got %T", err)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Output, "boom")
	assert.Contains(t, cmdErr.Error(), "exit code 3")
	assert.Equal(t, []string{"sh", "-c", "echo boom >&2; exit 3"}, cmdErr.Command)
}

func TestExecRunnerMissingProgram(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "nonexistent-command-xyz-123")

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, -1, cmdErr.ExitCode)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestMockRunner(t *testing.T) {
	m := &MockRunner{
		Results: map[string]MockResult{
			"xdg-mime default a.desktop x-scheme-handler/bad": {Output: "no such type", ExitCode: 4},
			"update-desktop-database":                        {Output: "ok"},
		},
		Missing: map[string]bool{"gio": true},
	}

	out, err := m.Run(context.Background(), "update-desktop-database", "/tmp/apps")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out))

	_, err = m.Run(context.Background(), "xdg-mime", "default", "a.desktop", "x-scheme-handler/bad")
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 4, cmdErr.ExitCode)
	assert.Equal(t, "no such type", cmdErr.Output)

	_, err = m.LookPath("gio")
	assert.ErrorIs(t, err, exec.ErrNotFound)

	assert.Equal(t, []string{
		"update-desktop-database /tmp/apps",
		"xdg-mime default a.desktop x-scheme-handler/bad",
	}, m.Commands())
}
