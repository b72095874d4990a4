// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package sysinfo collects the host facts that decide whether scheme
// registration and URI dispatch can work: the OS, whether the process runs in
// a container, and whether the helper programs of the backend are installed.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/jongio/sysuri/cmdutil"
	"github.com/jongio/sysuri/security"
)

// Tool is an external program a backend relies on.
type Tool struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Found    bool   `json:"found"`
	Required bool   `json:"required"`
	// Hint says how to install the tool when it is missing.
	Hint string `json:"hint,omitempty"`
}

// Report is the result of Collect.
type Report struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	KernelVersion   string `json:"kernelVersion"`
	Arch            string `json:"arch"`
	Virtualization  string `json:"virtualization,omitempty"`
	Container       bool   `json:"container"`
	Backend         string `json:"backend"`
	Tools           []Tool `json:"tools"`
}

// Ready reports whether every required tool was found.
func (r *Report) Ready() bool {
	for _, t := range r.Tools {
		if t.Required && !t.Found {
			return false
		}
	}
	return true
}

// hostInfo is replaced in tests.
var hostInfo = host.InfoWithContext

// Collect gathers host information and looks up the tools of goos.
func Collect(ctx context.Context, runner cmdutil.Runner, backend string) (*Report, error) {
	if runner == nil {
		runner = cmdutil.DefaultRunner
	}

	info, err := hostInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read host information: %w", err)
	}

	r := &Report{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Arch:            runtime.GOARCH,
		Backend:         backend,
	}
	if info.VirtualizationSystem != "" {
		r.Virtualization = info.VirtualizationSystem + "/" + info.VirtualizationRole
	}
	r.Container = security.IsContainerEnvironment() || isContainerGuest(info.VirtualizationSystem, info.VirtualizationRole)

	for _, t := range Tools(runtime.GOOS) {
		if path, err := runner.LookPath(t.Name); err == nil {
			t.Path = path
			t.Found = true
		} else {
			t.Hint = InstallSuggestion(t.Name)
		}
		r.Tools = append(r.Tools, t)
	}
	return r, nil
}

// Tools lists the helper programs used on goos.
func Tools(goos string) []Tool {
	switch goos {
	case "windows":
		return []Tool{{Name: "rundll32", Required: true}}
	case "darwin":
		return []Tool{{Name: "open", Required: true}}
	default:
		return []Tool{
			{Name: "xdg-mime", Required: true},
			{Name: "xdg-open", Required: true},
			{Name: "update-desktop-database"},
		}
	}
}

func isContainerGuest(system, role string) bool {
	if role != "guest" {
		return false
	}
	switch system {
	case "docker", "lxc", "podman", "openvz":
		return true
	}
	return false
}

// InstallSuggestion returns a suggestion for how to install a missing tool.
func InstallSuggestion(toolName string) string {
	suggestions := map[string]string{
		"xdg-mime":                "Install the xdg-utils package",
		"xdg-open":                "Install the xdg-utils package",
		"update-desktop-database": "Install the desktop-file-utils package",
	}

	if suggestion, ok := suggestions[toolName]; ok {
		return suggestion
	}
	return fmt.Sprintf("%s is part of the operating system; check PATH", toolName)
}
