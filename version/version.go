// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package version reports the sysuri build and the registration backend it
// was compiled with.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/jongio/sysuri/version.Version=..." at build time.
var (
	Version   = "0.0.0-dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info holds version information.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	// Backend is the registration mechanism compiled in for Platform.
	Backend string `json:"backend"`
}

// New returns the Info of the running binary.
func New(name, backend string) *Info {
	return &Info{
		Name:      name,
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Backend:   backend,
	}
}

// String returns a human-readable version string.
func (i *Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s, backend: %s)", i.Name, i.Version, i.GitCommit, i.BuildDate, i.Backend)
}
