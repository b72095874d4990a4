// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmdline turns an executable path plus argument tokens into the
// single command string stored by URI handler registrations, and back.
//
// Registration artifacts keep one command line, not an argv array, so every
// token that the OS would otherwise split (embedded spaces, quotes) must be
// quoted using the rules of the platform that will parse it later:
//
//   - Windows: CommandLineToArgvW rules (golang.org/x/sys/windows.EscapeArg)
//   - Unix: desktop-entry Exec quoting, which is also valid POSIX sh
//
// Encoding is total: it never fails and never checks that the executable exists.
package cmdline

import "strings"

// Encode quotes path and each argument and joins them with single spaces.
func Encode(path string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Quote(path))
	for _, arg := range args {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Append adds raw, already formatted arguments after an encoded command.
// The suffix is not quoted; it is joined with a single space.
func Append(command, rawArgs string) string {
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		return command
	}
	if command == "" {
		return rawArgs
	}
	return command + " " + rawArgs
}

// Executable returns the first token of command, unquoted.
func Executable(command string) (string, error) {
	tokens, err := Split(command)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", ErrEmptyCommand
	}
	return tokens[0], nil
}
