// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
)

// EnvIntegration enables tests that mutate the user's MIME database or registry.
const EnvIntegration = "SYSURI_INTEGRATION"

// SchemePrefix starts every scheme returned by RandomScheme.
const SchemePrefix = "testschema-ABC-"

// CaptureOutput captures stdout during function execution.
// It redirects os.Stdout to a pipe, executes the function, and returns the captured output.
// Stdout is restored even if fn returns an error.
//
// Example:
//
//	output := testutil.CaptureOutput(t, func() error {
//	    fmt.Println("test output")
//	    return nil
//	})
func CaptureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	os.Stdout = w

	// Buffered to avoid a goroutine leak
	outCh := make(chan string, 1)
	go func() {
		var output strings.Builder
		buf := make([]byte, 1024)
		for {
			n, readErr := r.Read(buf)
			if n > 0 {
				output.Write(buf[:n])
			}
			if readErr != nil {
				break
			}
		}
		outCh <- output.String()
	}()

	fnErr := fn()

	if err := w.Close(); err != nil {
		t.Logf("Failed to close pipe writer: %v", err)
	}
	os.Stdout = origStdout

	output := <-outCh

	if fnErr != nil {
		t.Logf("Command error: %v", fnErr)
	}

	return output
}

// TempDir creates a temporary directory with automatic cleanup.
// Unlike t.TempDir the name is predictable enough to find in a desktop
// entry's Exec line when debugging a failed integration run.
func TempDir(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "sysuri-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Logf("Failed to clean up temp directory %s: %v", tmpDir, err)
		}
	})

	return tmpDir
}

// RandomScheme returns a fresh scheme name such as "testschema-ABC-123456".
// Schemes are case-insensitive, so backends store it lower-cased.
func RandomScheme() string {
	return fmt.Sprintf("%s%d", SchemePrefix, rand.Uint32())
}

// RequireIntegration skips t unless SYSURI_INTEGRATION=1.
func RequireIntegration(t *testing.T) {
	t.Helper()

	if os.Getenv(EnvIntegration) != "1" {
		t.Skipf("set %s=1 to run tests that change the OS handler database", EnvIntegration)
	}
}
