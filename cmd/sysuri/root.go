// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jongio/sysuri/cliout"
	"github.com/jongio/sysuri/cmdutil"
	"github.com/jongio/sysuri/handler"
	"github.com/jongio/sysuri/logutil"
	"github.com/jongio/sysuri/metrics"
	"github.com/jongio/sysuri/notify"
	"github.com/jongio/sysuri/version"
)

const (
	appName = "sysuri"
	// envPrefix prefixes environment variables that default flags.
	envPrefix = "SYSURI_"
)

// deps are the collaborators commands use, swapped in tests.
type deps struct {
	newDispatcher func(handler.Options) *handler.Dispatcher
	runner        cmdutil.Runner
	notifier      notify.Notifier
	executable    func() (string, error)
}

func defaultDeps() deps {
	return deps{
		newDispatcher: handler.New,
		runner:        cmdutil.DefaultRunner,
		notifier:      notify.New(notify.DefaultConfig()),
		executable:    os.Executable,
	}
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	debug       bool
	logLevel    string
	output      string
	color       string
	metricsFile string
}

// run executes the CLI and returns the process exit code.
func run(args []string, d deps) int {
	var g globalFlags
	root := newRootCmd(&g, d)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		failed := root
		if c, _, findErr := root.Find(args); findErr == nil {
			failed = c
		}
		metrics.RecordCommandFailure(failed.Name())
		cliout.Error("%v", err)
	}

	if g.metricsFile != "" {
		if mErr := metrics.WriteTextfile(g.metricsFile); mErr != nil {
			logutil.Warn("failed to write metrics", "path", g.metricsFile, "error", mErr)
		}
	}

	if err != nil {
		return 1
	}
	return 0
}

func newRootCmd(g *globalFlags, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Register applications as handlers of custom URI schemes",
		Long: `sysuri registers an application as the OS handler of custom URI schemes
and asks the OS to open URIs with whatever handler is registered.

Every flag can be defaulted from an environment variable named SYSURI_<FLAG>,
e.g. SYSURI_OUTPUT=json or SYSURI_SCOPE=system.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindEnv(cmd, os.LookupEnv); err != nil {
				return err
			}
			if err := cliout.SetFormat(g.output); err != nil {
				return err
			}
			if err := applyColor(g.color); err != nil {
				return err
			}
			level, err := logutil.ParseLevel(g.logLevel)
			if err != nil {
				return err
			}
			if g.debug {
				level = logutil.LevelDebug
			}
			structured := g.output == "json" || strings.EqualFold(os.Getenv(logutil.EnvLogFormat), "json")
			logutil.SetupLogger(level, structured)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging (same as --log-level debug)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&g.output, "output", "o", "default", "Output format (default, json)")
	cmd.PersistentFlags().StringVar(&g.color, "color", "auto", "Colorize output (auto, always, never)")
	cmd.PersistentFlags().StringVar(&g.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	backend := d.newDispatcher(handler.Options{}).Backend()

	cmd.AddCommand(
		newInstallCmd(d),
		newOpenCmd(d),
		newQueryCmd(d),
		newHandleCmd(d),
		newDoctorCmd(d, backend),
		version.NewCommand(version.New(appName, backend)),
	)
	return cmd
}

// applyColor overrides terminal color detection.
func applyColor(mode string) error {
	switch strings.ToLower(mode) {
	case "auto", "":
	case "always":
		cliout.ForceColor()
	case "never":
		cliout.NoColor()
	default:
		return fmt.Errorf("invalid color mode: %s (valid options: auto, always, never)", mode)
	}
	return nil
}

// bindEnv sets every flag of cmd that was not given on the command line from
// SYSURI_<FLAG_NAME>, with dashes turned into underscores.
func bindEnv(cmd *cobra.Command, lookup func(string) (string, bool)) error {
	var errs []error
	visit := func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		if err := f.Value.Set(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s value %q: %w", key, v, err))
			return
		}
		f.Changed = true
	}
	cmd.Flags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	return errors.Join(errs...)
}
