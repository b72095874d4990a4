// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// MaxDisplayNameLength bounds vendor and application names.
const MaxDisplayNameLength = 255

var (
	// ErrInvalidPath indicates a path contains invalid characters or patterns.
	ErrInvalidPath = errors.New("invalid path")
	// ErrPathTraversal indicates a path traversal attempt.
	ErrPathTraversal = errors.New("path traversal detected")
	// ErrInvalidBundleID indicates a malformed bundle identifier.
	ErrInvalidBundleID = errors.New("invalid bundle identifier")
	// ErrInvalidDisplayName indicates a vendor or application name that cannot be stored safely.
	ErrInvalidDisplayName = errors.New("invalid display name")

	// bundleIDPattern accepts reverse-domain identifiers such as net.maidsafe.example.
	bundleIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*(\.[A-Za-z0-9][A-Za-z0-9_-]*)+$`)
)

// ValidateBundleID checks that id is a reverse-domain style identifier.
func ValidateBundleID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: bundle identifier cannot be empty", ErrInvalidBundleID)
	}
	if !bundleIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q is not in reverse-domain form", ErrInvalidBundleID, id)
	}
	return nil
}

// ValidateDisplayName checks a human readable name such as the vendor or the
// application name. field is used in the error message only.
func ValidateDisplayName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidDisplayName, field)
	}
	if len(value) > MaxDisplayNameLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrInvalidDisplayName, field, MaxDisplayNameLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %s contains control character %U", ErrInvalidDisplayName, field, r)
		}
	}
	return nil
}

// ValidateExecutablePath checks that path is syntactically usable as the first
// token of a registered command. The file does not have to exist yet.
func ValidateExecutablePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty executable path", ErrInvalidPath)
	}
	if strings.ContainsAny(path, "\x00\r\n") {
		return fmt.Errorf("%w: executable path contains NUL or line break", ErrInvalidPath)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: executable path %q is not absolute", ErrInvalidPath, path)
	}
	return nil
}

// ValidatePath checks an optional resource path such as an icon. Bare names
// are allowed because desktop environments resolve them from the icon theme.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsAny(path, "\x00\r\n") {
		return fmt.Errorf("%w: path contains NUL or line break", ErrInvalidPath)
	}

	// Check for path traversal attempts before resolving
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%w: path contains parent directory reference", ErrPathTraversal)
		}
	}
	return nil
}

// IsContainerEnvironment detects if the code is running in a containerized environment.
// URI dispatch usually has no desktop session to talk to in that case.
// It checks for:
// - GitHub Codespaces (CODESPACES=true)
// - VS Code Dev Containers (REMOTE_CONTAINERS=true)
// - Docker containers (/.dockerenv file exists)
// - Kubernetes pods (KUBERNETES_SERVICE_HOST set)
func IsContainerEnvironment() bool {
	if os.Getenv("CODESPACES") == "true" {
		return true
	}

	if os.Getenv("REMOTE_CONTAINERS") == "true" {
		return true
	}

	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}
