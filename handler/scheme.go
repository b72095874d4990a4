// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"fmt"
	"regexp"
	"strings"
)

// schemePattern is the RFC 3986 scheme grammar, lower-cased.
var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// normalizeScheme case-folds raw, drops a trailing ":" or "://", strips the
// characters in strip and checks the result against the RFC 3986 grammar.
func normalizeScheme(raw, strip string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "://")
	s = strings.TrimSuffix(s, ":")
	if strip != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(strip, r) {
				return -1
			}
			return r
		}, s)
	}

	if s == "" {
		return "", fmt.Errorf("scheme %q is empty after normalization", raw)
	}
	if !schemePattern.MatchString(s) {
		return "", fmt.Errorf("scheme %q must start with a letter and contain only letters, digits, '+', '-' or '.'", raw)
	}
	return s, nil
}

// MimeType returns the freedesktop pseudo MIME type for scheme.
func MimeType(scheme string) string {
	return "x-scheme-handler/" + scheme
}
