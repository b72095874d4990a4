//go:build windows

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows/registry"

	"github.com/jongio/sysuri/testutil"
)

func TestRegistryNormalizeScheme(t *testing.T) {
	b := newPlatformBackend(Options{}.withDefaults())
	assert.Equal(t, "registry", b.Name())

	got, err := b.NormalizeScheme(`My\Scheme`)
	require.NoError(t, err)
	assert.Equal(t, "myscheme", got)
}

func TestIntegrationRegistryInstall(t *testing.T) {
	testutil.RequireIntegration(t)

	scheme := testutil.RandomScheme()
	a := testApp(t)
	d := New(Options{})

	require.NoError(t, d.Install(context.Background(), a, scheme))
	normalized, err := d.backend.NormalizeScheme(scheme)
	require.NoError(t, err)
	t.Cleanup(func() {
		base := classesRoot + `\` + normalized
		for _, k := range []string{base + `\shell\open\command`, base + `\shell\open`, base + `\shell`, base} {
			_ = registry.DeleteKey(registry.CURRENT_USER, k)
		}
	})

	got, err := d.Query(context.Background(), scheme)
	require.NoError(t, err)
	assert.Equal(t, registryCommand(a.Exec), got)

	// installing twice leaves the same values behind
	require.NoError(t, d.Install(context.Background(), a, scheme))

	k, err := registry.OpenKey(registry.CURRENT_USER, classesRoot+`\`+normalized, registry.QUERY_VALUE)
	require.NoError(t, err)
	defer k.Close()

	name, _, err := k.GetStringValue("")
	require.NoError(t, err)
	assert.Equal(t, "URL:"+a.Name, name)

	protocol, _, err := k.GetStringValue("URL Protocol")
	require.NoError(t, err)
	assert.Empty(t, protocol)
}
