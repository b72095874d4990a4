//go:build !windows && !darwin

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

func newPlatformBackend(opts Options) Backend {
	return newXDGBackend(opts)
}
