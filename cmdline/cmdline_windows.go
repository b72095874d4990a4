//go:build windows

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmdline

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Quote escapes token following the CommandLineToArgvW rules.
func Quote(token string) string {
	return windows.EscapeArg(token)
}

// Split parses command the way CommandLineToArgvW does.
func Split(command string) ([]string, error) {
	if command == "" {
		return nil, nil
	}
	args, err := windows.DecomposeCommandLine(command)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line: %w", err)
	}
	return args, nil
}
