// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jongio/sysuri/cliout"
	"github.com/jongio/sysuri/sysinfo"
)

var errNotReady = errors.New("required tools are missing")

func newDoctorCmd(d deps, backend string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this host can register and dispatch URI schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := sysinfo.Collect(cmd.Context(), d.runner, backend)
			if err != nil {
				return err
			}

			if err := cliout.Print(report, func() { printDoctor(report) }); err != nil {
				return err
			}
			if !report.Ready() {
				return errNotReady
			}
			return nil
		},
	}
}

func printDoctor(r *sysinfo.Report) {
	cliout.Header("sysuri doctor")
	cliout.Label("Host", r.Hostname)
	cliout.Label("Platform", r.Platform+" "+r.PlatformVersion+" ("+r.OS+"/"+r.Arch+")")
	cliout.Label("Kernel", r.KernelVersion)
	cliout.Label("Backend", r.Backend)
	if r.Virtualization != "" {
		cliout.Label("Virtualization", r.Virtualization)
	}

	rows := make([]cliout.TableRow, 0, len(r.Tools))
	for _, t := range r.Tools {
		status := "found"
		switch {
		case !t.Found && t.Required:
			status = "missing"
		case !t.Found:
			status = "skipped"
		}
		rows = append(rows, cliout.TableRow{"Tool": t.Name, "Status": status, "Path": t.Path})
	}
	cliout.Table([]string{"Tool", "Status", "Path"}, rows)

	for _, t := range r.Tools {
		if t.Hint != "" {
			cliout.Info("%s: %s", t.Name, t.Hint)
		}
	}
	if r.Container {
		cliout.Warning("Running in a container: URI dispatch needs a desktop session")
	}
	if r.Ready() {
		cliout.Success("Ready")
	}
}
