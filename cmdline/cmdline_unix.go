//go:build !windows

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmdline

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// reservedChars are the characters the desktop entry specification requires
// to be quoted inside an Exec key, plus whitespace.
const reservedChars = " \t\n\"'\\><~|&;$*?#()`"

// escapedInQuotes must be backslash-escaped inside a double-quoted argument.
const escapedInQuotes = "\"`$\\"

// Quote returns token unchanged when it needs no quoting, otherwise it wraps
// it in double quotes and backslash-escapes ", `, $ and \.
func Quote(token string) string {
	if token == "" {
		return `""`
	}
	if !strings.ContainsAny(token, reservedChars) {
		return token
	}

	var b strings.Builder
	b.Grow(len(token) + 2)
	b.WriteByte('"')
	for _, r := range token {
		if strings.ContainsRune(escapedInQuotes, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Split parses command with POSIX shell word rules.
func Split(command string) ([]string, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line: %w", err)
	}
	return words, nil
}
