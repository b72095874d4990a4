// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config loads the YAML manifest that describes an application and
// the schemes it wants to handle.
//
// Example manifest:
//
//	bundle_id: net.maidsafe.example
//	vendor: MaidSafe.net Ltd
//	name: Example
//	exec: /opt/example/bin/example
//	args: ["--uri"]
//	schemes: [safe-auth, safe]
//	scope: user
//
// Environment variables override the file: SYSURI_SCOPE,
// SYSURI_APPLICATIONS_DIR and SYSURI_ALLOW_UNBUNDLED.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/fileutil"
	"github.com/jongio/sysuri/handler"
	"github.com/jongio/sysuri/security"
)

// Environment variables read by ApplyEnv.
const (
	EnvScope           = "SYSURI_SCOPE"
	EnvApplicationsDir = "SYSURI_APPLICATIONS_DIR"
	EnvAllowUnbundled  = "SYSURI_ALLOW_UNBUNDLED"
)

// Manifest is the on-disk registration request.
type Manifest struct {
	BundleID string `yaml:"bundle_id"`
	Vendor   string `yaml:"vendor"`
	Name     string `yaml:"name"`
	// Exec is the absolute path of the handler executable.
	Exec string `yaml:"exec"`
	// Args are passed to Exec before the URI. Each one is quoted separately.
	Args    []string `yaml:"args,omitempty"`
	Icon    string   `yaml:"icon,omitempty"`
	Schemes []string `yaml:"schemes"`

	// Scope is "user" (default) or "system".
	Scope string `yaml:"scope,omitempty"`
	// ApplicationsDir overrides where desktop entries are written.
	ApplicationsDir string `yaml:"applications_dir,omitempty"`
	// AllowUnbundled lets macOS registration proceed outside an app bundle.
	AllowUnbundled bool `yaml:"allow_unbundled,omitempty"`
}

// Load reads and parses the manifest at path, then applies environment
// overrides. Unknown keys are rejected.
func Load(path string) (*Manifest, error) {
	if err := security.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid manifest path: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := m.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse decodes a manifest without applying environment overrides.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// ApplyEnv overrides fields from environment variables looked up with lookup.
func (m *Manifest) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvScope); ok && v != "" {
		m.Scope = v
	}
	if v, ok := lookup(EnvApplicationsDir); ok && v != "" {
		m.ApplicationsDir = v
	}
	if v, ok := lookup(EnvAllowUnbundled); ok && v != "" {
		allow, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvAllowUnbundled, v, err)
		}
		m.AllowUnbundled = allow
	}
	return nil
}

// App builds the validated application descriptor.
func (m *Manifest) App() (app.App, error) {
	if strings.TrimSpace(m.Exec) == "" {
		return app.App{}, fmt.Errorf("%w: exec is required", app.ErrInvalidApp)
	}
	argv := append([]string{m.Exec}, m.Args...)
	return app.FromArgs(m.BundleID, m.Vendor, m.Name, m.Icon, argv...)
}

// Options returns the backend options.
func (m *Manifest) Options() (handler.Options, error) {
	scope, err := handler.ParseScope(m.Scope)
	if err != nil {
		return handler.Options{}, err
	}
	return handler.Options{
		Scope:           scope,
		ApplicationsDir: m.ApplicationsDir,
		AllowUnbundled:  m.AllowUnbundled,
	}, nil
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, data, fileutil.FilePermission)
}

// EnvOptions returns backend options built from environment variables only.
func EnvOptions() (handler.Options, error) {
	var m Manifest
	if err := m.ApplyEnv(os.LookupEnv); err != nil {
		return handler.Options{}, err
	}
	return m.Options()
}
