// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"fmt"
	"strings"

	"github.com/jongio/sysuri/cmdutil"
)

// Scope selects per-user or machine-wide registration.
type Scope string

const (
	// ScopeUser registers for the current user only.
	ScopeUser Scope = "user"
	// ScopeSystem registers for all users and usually needs elevation.
	ScopeSystem Scope = "system"
)

// ParseScope parses "user" or "system". The empty string means ScopeUser.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeUser:
		return ScopeUser, nil
	case ScopeSystem:
		return ScopeSystem, nil
	default:
		return "", fmt.Errorf("invalid scope %q (valid options: user, system)", s)
	}
}

// Options configures the platform backend. The zero value is usable.
type Options struct {
	// Scope selects per-user or machine-wide registration.
	Scope Scope
	// ApplicationsDir overrides the desktop entry directory (freedesktop only).
	ApplicationsDir string
	// AllowUnbundled lets the macOS backend call LaunchServices even when the
	// process is not running from an application bundle.
	AllowUnbundled bool
	// Runner executes external commands. Defaults to cmdutil.DefaultRunner.
	Runner cmdutil.Runner
}

func (o Options) withDefaults() Options {
	if o.Scope == "" {
		o.Scope = ScopeUser
	}
	if o.Runner == nil {
		o.Runner = cmdutil.DefaultRunner
	}
	return o
}
