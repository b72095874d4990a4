//go:build windows

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/logutil"
)

const (
	registryBackendName = "registry"
	// registryStripChars are removed from schemes because "\" separates keys.
	registryStripChars = `\`
)

// registryBackend writes URL protocol keys under Software\Classes.
type registryBackend struct {
	opts Options
	root registry.Key
	log  *logutil.ComponentLogger
}

func newPlatformBackend(opts Options) Backend {
	root := registry.CURRENT_USER
	if opts.Scope == ScopeSystem {
		root = registry.LOCAL_MACHINE
	}
	return &registryBackend{
		opts: opts,
		root: root,
		log:  logutil.NewLogger("handler").WithBackend(registryBackendName),
	}
}

func (b *registryBackend) Name() string { return registryBackendName }

func (b *registryBackend) NormalizeScheme(raw string) (string, error) {
	return normalizeScheme(raw, registryStripChars)
}

// Register writes the layout of every scheme. A failed scheme does not stop
// the others and nothing already written is removed.
func (b *registryBackend) Register(_ context.Context, a app.App, schemes []string) []*SchemeError {
	var failures []*SchemeError
	for _, s := range schemes {
		if err := b.writeScheme(a, s); err != nil {
			failures = append(failures, newSchemeError(s, KindArtifactWrite, "write registry key", err))
			continue
		}
		b.log.WithScheme(s).Debug("registry keys written")
	}
	return failures
}

func (b *registryBackend) writeScheme(a app.App, scheme string) error {
	for _, v := range registryLayout(a, scheme) {
		if err := setStringValue(b.root, v); err != nil {
			return err
		}
	}
	return nil
}

func setStringValue(root registry.Key, v registryValue) error {
	k, _, err := registry.CreateKey(root, v.Path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to create key %s: %w", v.Path, err)
	}
	defer k.Close()

	if err := k.SetStringValue(v.Name, v.Value); err != nil {
		return fmt.Errorf("failed to set value %q of %s: %w", v.Name, v.Path, err)
	}
	return nil
}

// Query returns the open command registered for scheme, looked up through
// HKEY_CLASSES_ROOT so per-user keys shadow machine-wide ones.
func (b *registryBackend) Query(_ context.Context, scheme string) (string, error) {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, scheme+`\shell\open\command`, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", fmt.Errorf("scheme %q: %w", scheme, ErrNotRegistered)
		}
		return "", fmt.Errorf("failed to open key for scheme %q: %w", scheme, err)
	}
	defer k.Close()

	cmd, _, err := k.GetStringValue("")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", fmt.Errorf("scheme %q: %w", scheme, ErrNotRegistered)
		}
		return "", fmt.Errorf("failed to read command for scheme %q: %w", scheme, err)
	}
	return cmd, nil
}

func (b *registryBackend) Open(ctx context.Context, uri string) error {
	return openWithOS(ctx, uri)
}
