// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package handler registers an application as the OS handler of custom URI
// schemes and asks the OS to open URIs.
//
// One backend is compiled in per target:
//
//   - Windows: registry keys under Software\Classes (backend "registry")
//   - macOS: LaunchServices LSSetDefaultHandlerForURLScheme (backend "launchservices")
//   - Linux and other freedesktop systems: a .desktop file plus
//     update-desktop-database and xdg-mime (backend "xdg")
//
// All of them share one contract. Install is idempotent (it overwrites),
// registers every scheme independently, never rolls back, and fails with an
// *InstallError listing each failed scheme when any scheme fails. Open hands a
// URI to the OS resolver and keeps no scheme table of its own.
//
// Calls are synchronous. Concurrent registrations of the same scheme by
// different processes are resolved by whichever write lands last.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/logutil"
	"github.com/jongio/sysuri/metrics"
)

// Backend is one native registration mechanism.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// NormalizeScheme case-folds raw and strips characters the backend
	// cannot store. It fails when nothing valid remains.
	NormalizeScheme(raw string) (string, error)
	// Register binds every scheme (already normalized) to a and returns one
	// error per failed scheme. It must attempt every scheme.
	Register(ctx context.Context, a app.App, schemes []string) []*SchemeError
	// Query returns a description of the handler currently registered for
	// scheme, or an error wrapping ErrNotRegistered.
	Query(ctx context.Context, scheme string) (string, error)
	// Open asks the OS to dispatch uri to its registered handler.
	Open(ctx context.Context, uri string) error
}

// Dispatcher runs Install, Open and Query against one Backend.
type Dispatcher struct {
	backend Backend
	log     *logutil.ComponentLogger
}

// New returns a Dispatcher for the backend compiled in for this platform.
func New(opts Options) *Dispatcher {
	return NewDispatcher(newPlatformBackend(opts.withDefaults()))
}

// NewDispatcher returns a Dispatcher for a specific backend.
func NewDispatcher(b Backend) *Dispatcher {
	return &Dispatcher{
		backend: b,
		log:     logutil.NewLogger("handler").WithBackend(b.Name()),
	}
}

// Install registers a as the handler of schemes with default options.
func Install(ctx context.Context, a app.App, schemes ...string) error {
	return New(Options{}).Install(ctx, a, schemes...)
}

// Open asks the OS to open uri with default options.
func Open(ctx context.Context, uri string) error {
	return New(Options{}).Open(ctx, uri)
}

// Query returns the handler registered for scheme with default options.
func Query(ctx context.Context, scheme string) (string, error) {
	return New(Options{}).Query(ctx, scheme)
}

// Backend returns the backend name.
func (d *Dispatcher) Backend() string {
	return d.backend.Name()
}

// NormalizeScheme applies the backend's scheme rules to raw.
func (d *Dispatcher) NormalizeScheme(raw string) (string, error) {
	return d.backend.NormalizeScheme(raw)
}

// Install validates a, normalizes each scheme and registers the valid ones.
// It returns nil only when every scheme was registered. A descriptor that
// fails validation is rejected before any artifact is touched.
func (d *Dispatcher) Install(ctx context.Context, a app.App, schemes ...string) error {
	start := time.Now()

	if err := a.Validate(); err != nil {
		return err
	}
	if len(schemes) == 0 {
		return ErrNoSchemes
	}

	var failures []*SchemeError
	valid := make([]string, 0, len(schemes))
	seen := make(map[string]bool, len(schemes))
	for _, raw := range schemes {
		if !utf8.ValidString(raw) {
			failures = append(failures, newSchemeError(raw, KindEncoding, "normalize scheme", nil))
			continue
		}
		s, err := d.backend.NormalizeScheme(raw)
		if err != nil {
			failures = append(failures, newSchemeError(raw, KindInvalidScheme, "normalize scheme", err))
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		valid = append(valid, s)
	}

	attempted := len(valid) + len(failures)
	if len(valid) > 0 {
		d.log.Debug("registering schemes", "app", a.String(), "schemes", strings.Join(valid, ","))
		failures = append(failures, d.backend.Register(ctx, a, valid)...)
	}

	d.record(valid, failures)
	metrics.RecordInstall(d.backend.Name(), len(failures) == 0, time.Since(start))

	if len(failures) > 0 {
		for _, f := range failures {
			d.log.WithScheme(f.Scheme).Warn("scheme registration failed",
				"kind", f.Kind.String(), "step", f.Step, "error", f.Err)
		}
		return &InstallError{Attempted: attempted, Failures: failures}
	}

	d.log.Info("schemes registered", "schemes", strings.Join(valid, ","), "elapsed", time.Since(start))
	return nil
}

func (d *Dispatcher) record(valid []string, failures []*SchemeError) {
	failed := make(map[string]bool, len(failures))
	for _, f := range failures {
		failed[f.Scheme] = true
		metrics.RecordScheme(d.backend.Name(), f.Kind.String())
	}
	for _, s := range valid {
		if !failed[s] {
			metrics.RecordScheme(d.backend.Name(), "")
		}
	}
}

// Open asks the OS to dispatch uri. Only the presence of a "scheme:" prefix
// is checked here; resolution is left to the OS.
func (d *Dispatcher) Open(ctx context.Context, uri string) error {
	scheme, err := uriScheme(uri)
	if err != nil {
		metrics.RecordDispatch(d.backend.Name(), false)
		return newSchemeError(scheme, KindDispatch, "parse uri", err)
	}

	d.log.WithScheme(scheme).Debug("opening uri", "uri", uri)
	if err := d.backend.Open(ctx, uri); err != nil {
		metrics.RecordDispatch(d.backend.Name(), false)
		var se *SchemeError
		if errors.As(err, &se) {
			return se
		}
		return newSchemeError(scheme, KindDispatch, "open uri", err)
	}

	metrics.RecordDispatch(d.backend.Name(), true)
	return nil
}

// Query returns the handler registered for scheme.
func (d *Dispatcher) Query(ctx context.Context, scheme string) (string, error) {
	s, err := d.backend.NormalizeScheme(scheme)
	if err != nil {
		return "", newSchemeError(scheme, KindInvalidScheme, "normalize scheme", err)
	}
	return d.backend.Query(ctx, s)
}

func uriScheme(uri string) (string, error) {
	if !utf8.ValidString(uri) {
		return "", ErrEncoding
	}
	prefix, _, found := strings.Cut(uri, ":")
	if !found {
		return "", errMissingScheme
	}
	scheme := strings.ToLower(prefix)
	if !schemePattern.MatchString(scheme) {
		return prefix, fmt.Errorf("invalid scheme %q: %w", prefix, errMissingScheme)
	}
	return scheme, nil
}
