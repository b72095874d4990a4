// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jongio/sysuri/cliout"
	"github.com/jongio/sysuri/config"
	"github.com/jongio/sysuri/handler"
)

type installFlags struct {
	manifestPath    string
	bundleID        string
	vendor          string
	name            string
	exec            string
	args            []string
	icon            string
	scope           string
	applicationsDir string
	allowUnbundled  bool
}

// schemeResult is the per-scheme line of the install report.
type schemeResult struct {
	Scheme   string `json:"scheme"`
	Status   string `json:"status"`
	Kind     string `json:"kind,omitempty"`
	ExitCode int    `json:"exitCode,omitempty"`
	Error    string `json:"error,omitempty"`
}

type installReport struct {
	App     string         `json:"app"`
	Backend string         `json:"backend"`
	Schemes []schemeResult `json:"schemes"`
}

func newInstallCmd(d deps) *cobra.Command {
	var f installFlags
	cmd := &cobra.Command{
		Use:   "install [scheme...]",
		Short: "Register an application as the handler of URI schemes",
		Long: `Register an application as the handler of one or more URI schemes.

The application comes from --manifest, from flags, or both (flags win).
Schemes given as arguments replace the manifest's schemes. When --exec is
omitted, the running sysuri binary is registered with its "handle" command.`,
		Example: `  sysuri install --bundle-id net.example.app --vendor Example --name App \
    --exec /opt/app/bin/app --arg --uri example-app
  sysuri install --manifest app.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.manifest(cmd, args, d)
			if err != nil {
				return err
			}
			a, err := m.App()
			if err != nil {
				return err
			}
			opts, err := m.Options()
			if err != nil {
				return err
			}
			opts.Runner = d.runner

			disp := d.newDispatcher(opts)
			installErr := disp.Install(cmd.Context(), a, m.Schemes...)
			if installErr != nil && !errors.As(installErr, new(*handler.InstallError)) {
				return installErr
			}

			report := buildInstallReport(disp, a.String(), m.Schemes, installErr)
			if err := cliout.Print(report, func() { printInstallReport(report) }); err != nil {
				return err
			}
			return installErr
		},
	}

	cmd.Flags().StringVarP(&f.manifestPath, "manifest", "m", "", "YAML manifest describing the application")
	cmd.Flags().StringVar(&f.bundleID, "bundle-id", "", "Reverse-domain bundle identifier, e.g. net.example.app")
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "Vendor display name")
	cmd.Flags().StringVar(&f.name, "name", "", "Application display name")
	cmd.Flags().StringVar(&f.exec, "exec", "", "Absolute path of the handler executable")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Argument passed before the URI (repeatable)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "Icon path or theme icon name")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Registration scope (user, system)")
	cmd.Flags().StringVar(&f.applicationsDir, "applications-dir", "", "Directory for desktop entries (freedesktop only)")
	cmd.Flags().BoolVar(&f.allowUnbundled, "allow-unbundled", false, "Register on macOS even when not running from an app bundle")
	return cmd
}

// manifest merges the manifest file, the flags and the arguments.
func (f *installFlags) manifest(cmd *cobra.Command, args []string, d deps) (*config.Manifest, error) {
	m := &config.Manifest{}
	if f.manifestPath != "" {
		loaded, err := config.Load(f.manifestPath)
		if err != nil {
			return nil, err
		}
		m = loaded
	}

	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("bundle-id", &m.BundleID, f.bundleID)
	set("vendor", &m.Vendor, f.vendor)
	set("name", &m.Name, f.name)
	set("exec", &m.Exec, f.exec)
	set("icon", &m.Icon, f.icon)
	set("scope", &m.Scope, f.scope)
	set("applications-dir", &m.ApplicationsDir, f.applicationsDir)
	if cmd.Flags().Changed("arg") {
		m.Args = f.args
	}
	if cmd.Flags().Changed("allow-unbundled") {
		m.AllowUnbundled = f.allowUnbundled
	}
	if len(args) > 0 {
		m.Schemes = args
	}

	if m.Exec == "" {
		self, err := d.executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate sysuri executable: %w", err)
		}
		m.Exec = self
		if !cmd.Flags().Changed("arg") && len(m.Args) == 0 {
			m.Args = []string{"handle"}
		}
	}

	if len(m.Schemes) == 0 {
		return nil, handler.ErrNoSchemes
	}
	return m, nil
}

func buildInstallReport(disp *handler.Dispatcher, app string, schemes []string, err error) installReport {
	var installErr *handler.InstallError
	errors.As(err, &installErr)

	report := installReport{App: app, Backend: disp.Backend()}
	seen := make(map[string]bool)
	for _, raw := range schemes {
		name, nErr := disp.NormalizeScheme(raw)
		if nErr != nil {
			name = raw
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		res := schemeResult{Scheme: name, Status: "registered"}
		if installErr != nil {
			for _, f := range installErr.Failures {
				if f.Scheme == name || f.Scheme == raw {
					res.Status = "failed"
					res.Kind = f.Kind.String()
					res.ExitCode = f.ExitCode
					res.Error = f.Error()
					break
				}
			}
		}
		report.Schemes = append(report.Schemes, res)
	}
	return report
}

func printInstallReport(r installReport) {
	cliout.Info("Installing %s (backend: %s)", cliout.Highlight("%s", r.App), r.Backend)
	for _, s := range r.Schemes {
		if s.Status == "failed" {
			cliout.Warning("%s: %s", s.Scheme, s.Error)
			continue
		}
		cliout.Success("%s", s.Scheme)
	}
}
