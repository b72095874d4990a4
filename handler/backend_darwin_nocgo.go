//go:build darwin && !cgo

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"context"
	"errors"

	"github.com/jongio/sysuri/app"
)

const launchServicesBackendName = "launchservices"

var errNoCgo = errors.New("LaunchServices requires a cgo-enabled build")

// launchServicesBackend without cgo can only open URIs.
type launchServicesBackend struct{}

func newPlatformBackend(Options) Backend {
	return launchServicesBackend{}
}

func (launchServicesBackend) Name() string { return launchServicesBackendName }

func (launchServicesBackend) NormalizeScheme(raw string) (string, error) {
	return normalizeScheme(raw, "")
}

func (launchServicesBackend) Register(_ context.Context, _ app.App, schemes []string) []*SchemeError {
	return failAll(schemes, KindUnsupportedPlatform, "set default handler", errNoCgo)
}

func (launchServicesBackend) Query(_ context.Context, scheme string) (string, error) {
	return "", newSchemeError(scheme, KindUnsupportedPlatform, "query default handler", errNoCgo)
}

func (launchServicesBackend) Open(ctx context.Context, uri string) error {
	return openWithOS(ctx, uri)
}
