// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/fileutil"
	"github.com/jongio/sysuri/logutil"
	"github.com/jongio/sysuri/metrics"
)

const (
	xdgBackendName = "xdg"
	// xdgStripChars are removed from schemes before they are stored.
	xdgStripChars = "./"

	updateDesktopDatabase = "update-desktop-database"
	xdgMime               = "xdg-mime"

	systemApplicationsDir = "/usr/share/applications"
)

// xdgBackend writes a .desktop launcher and associates it with
// x-scheme-handler/<scheme> through the freedesktop tools.
type xdgBackend struct {
	opts Options
	log  *logutil.ComponentLogger
}

func newXDGBackend(opts Options) *xdgBackend {
	return &xdgBackend{
		opts: opts.withDefaults(),
		log:  logutil.NewLogger("handler").WithBackend(xdgBackendName),
	}
}

func (b *xdgBackend) Name() string { return xdgBackendName }

func (b *xdgBackend) NormalizeScheme(raw string) (string, error) {
	return normalizeScheme(raw, xdgStripChars)
}

// applicationsDir returns the directory that receives the launcher.
func (b *xdgBackend) applicationsDir() (string, error) {
	if b.opts.ApplicationsDir != "" {
		return b.opts.ApplicationsDir, nil
	}
	if b.opts.Scope == ScopeSystem {
		return systemApplicationsDir, nil
	}
	if xdg.DataHome == "" {
		return "", fmt.Errorf("failed to resolve XDG data home")
	}
	return filepath.Join(xdg.DataHome, "applications"), nil
}

// Register writes one launcher for all schemes, refreshes the desktop
// database and sets each scheme's default. A launcher write failure fails
// every scheme; a database refresh failure is reported for every scheme
// unless a scheme's own xdg-mime call failed, which takes precedence.
func (b *xdgBackend) Register(ctx context.Context, a app.App, schemes []string) []*SchemeError {
	dir, path, err := b.writeEntry(a, schemes)
	if err != nil {
		return failAll(schemes, KindArtifactWrite, "write desktop entry", err)
	}
	b.log.Debug("desktop entry written", "path", path)

	refreshErr := b.refreshDatabase(ctx, dir)

	artifact := filepath.Base(path)
	var failures []*SchemeError
	for _, s := range schemes {
		log := b.log.WithScheme(s)
		if _, err := b.opts.Runner.Run(ctx, xdgMime, "default", artifact, MimeType(s)); err != nil {
			metrics.RecordCommandFailure(xdgMime)
			failures = append(failures, newSchemeError(s, KindDatabaseUpdate, "xdg-mime default", err))
			continue
		}
		if refreshErr != nil {
			failures = append(failures, newSchemeError(s, KindDatabaseUpdate, "update desktop database", refreshErr))
			continue
		}
		log.Debug("default handler set", "artifact", artifact)
	}
	return failures
}

func (b *xdgBackend) writeEntry(a app.App, schemes []string) (dir, path string, err error) {
	dir, err = b.applicationsDir()
	if err != nil {
		return "", "", err
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return dir, "", err
	}

	path = filepath.Join(dir, a.ArtifactName())
	existing, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return dir, path, fmt.Errorf("failed to read existing desktop entry: %w", err)
	}

	added := make([]string, len(schemes))
	for i, s := range schemes {
		added[i] = MimeType(s)
	}
	entry := newDesktopEntry(a, mergeMimeTypes(parseMimeTypes(existing), added))

	if err := fileutil.AtomicWriteFile(path, entry.render(), fileutil.FilePermission); err != nil {
		return dir, path, err
	}
	return dir, path, nil
}

// refreshDatabase runs update-desktop-database when it is installed.
func (b *xdgBackend) refreshDatabase(ctx context.Context, dir string) error {
	if _, err := b.opts.Runner.LookPath(updateDesktopDatabase); err != nil {
		b.log.Debug("update-desktop-database not found, skipping refresh")
		return nil
	}
	if _, err := b.opts.Runner.Run(ctx, updateDesktopDatabase, dir); err != nil {
		metrics.RecordCommandFailure(updateDesktopDatabase)
		b.log.Warn("desktop database refresh failed", "dir", dir, "error", err)
		return err
	}
	return nil
}

// Query returns the launcher xdg-mime reports as the default for scheme.
func (b *xdgBackend) Query(ctx context.Context, scheme string) (string, error) {
	out, err := b.opts.Runner.Run(ctx, xdgMime, "query", "default", MimeType(scheme))
	if err != nil {
		return "", fmt.Errorf("xdg-mime query failed: %w", err)
	}
	handler := strings.TrimSpace(string(out))
	if handler == "" {
		return "", fmt.Errorf("scheme %q: %w", scheme, ErrNotRegistered)
	}
	return handler, nil
}

func (b *xdgBackend) Open(ctx context.Context, uri string) error {
	return openWithOS(ctx, uri)
}

func failAll(schemes []string, kind Kind, step string, err error) []*SchemeError {
	failures := make([]*SchemeError, len(schemes))
	for i, s := range schemes {
		failures[i] = newSchemeError(s, kind, step, err)
	}
	return failures
}

