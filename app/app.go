// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package app describes the application that asks to be registered as a URI
// scheme handler.
//
// An App is a plain value. Backends receive it by value and only read it;
// every side effect of a registration happens outside the process.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jongio/sysuri/cmdline"
	"github.com/jongio/sysuri/security"
)

// DesktopFileExtension is the extension of generated launcher descriptors.
const DesktopFileExtension = ".desktop"

// ErrInvalidApp wraps every descriptor validation failure.
var ErrInvalidApp = errors.New("invalid application descriptor")

// App is the registration request.
type App struct {
	// BundleID is a reverse-domain identifier, e.g. net.maidsafe.example.
	BundleID string `json:"bundleId" yaml:"bundle_id"`
	// Vendor is the display name of the publisher.
	Vendor string `json:"vendor" yaml:"vendor"`
	// Name is the display name of the application.
	Name string `json:"name" yaml:"name"`
	// Exec is an absolute executable path, optionally followed by a literal
	// argument string. It is stored verbatim as the registered command.
	Exec string `json:"exec" yaml:"exec"`
	// Icon is an optional icon path or theme icon name.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// New builds and validates an App.
func New(bundleID, vendor, name, exec, icon string) (App, error) {
	a := App{
		BundleID: bundleID,
		Vendor:   vendor,
		Name:     name,
		Exec:     exec,
		Icon:     icon,
	}
	if err := a.Validate(); err != nil {
		return App{}, err
	}
	return a, nil
}

// FromArgs builds an App whose Exec is argv encoded as a command line.
// argv[0] is the executable.
func FromArgs(bundleID, vendor, name, icon string, argv ...string) (App, error) {
	if len(argv) == 0 {
		return App{}, fmt.Errorf("%w: no executable given", ErrInvalidApp)
	}
	return New(bundleID, vendor, name, cmdline.Encode(argv[0], argv[1:]...), icon)
}

// Validate checks the descriptor invariants.
func (a App) Validate() error {
	if err := security.ValidateBundleID(a.BundleID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidApp, err)
	}
	if err := security.ValidateDisplayName("vendor", a.Vendor); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidApp, err)
	}
	if err := security.ValidateDisplayName("name", a.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidApp, err)
	}
	if Clean(a.Vendor) == "" || Clean(a.Name) == "" {
		return fmt.Errorf("%w: vendor and name must keep at least one character after normalization", ErrInvalidApp)
	}

	exe, err := cmdline.Executable(a.Exec)
	if err != nil {
		return fmt.Errorf("%w: exec: %w", ErrInvalidApp, err)
	}
	if err := security.ValidateExecutablePath(exe); err != nil {
		return fmt.Errorf("%w: exec: %w", ErrInvalidApp, err)
	}

	if a.Icon != "" {
		if err := security.ValidatePath(a.Icon); err != nil {
			return fmt.Errorf("%w: icon: %w", ErrInvalidApp, err)
		}
	}
	return nil
}

// Executable returns the unquoted executable path of Exec.
func (a App) Executable() (string, error) {
	return cmdline.Executable(a.Exec)
}

// ArtifactName returns the launcher descriptor file name derived from the
// vendor and application name. It only depends on those two fields.
func (a App) ArtifactName() string {
	return ArtifactName(a.Vendor, a.Name)
}

// ArtifactName returns "<clean(vendor)>-<clean(name)>.desktop".
func ArtifactName(vendor, name string) string {
	return Clean(vendor) + "-" + Clean(name) + DesktopFileExtension
}

// Clean lower-cases s and strips "." and "/" so the result is usable as a
// file name component.
func Clean(s string) string {
	return strings.ToLower(strings.NewReplacer(".", "", "/", "").Replace(s))
}

// String implements fmt.Stringer.
func (a App) String() string {
	return fmt.Sprintf("%s (%s %s)", a.BundleID, a.Vendor, a.Name)
}
