// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jongio/sysuri/cliout"
	"github.com/jongio/sysuri/config"
	"github.com/jongio/sysuri/logutil"
	"github.com/jongio/sysuri/notify"
	"github.com/jongio/sysuri/security"
)

type uriReport struct {
	URI     string `json:"uri"`
	Scheme  string `json:"scheme,omitempty"`
	Handler string `json:"handler,omitempty"`
	Status  string `json:"status"`
}

func newOpenCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "open <uri>",
		Short: "Open a URI with its registered handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.EnvOptions()
			if err != nil {
				return err
			}
			opts.Runner = d.runner

			uri := args[0]
			if err := d.newDispatcher(opts).Open(cmd.Context(), uri); err != nil {
				return err
			}
			return cliout.Print(uriReport{URI: uri, Status: "dispatched"}, func() {
				cliout.Success("Opened %s", uri)
			})
		},
	}
}

func newQueryCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "query <scheme>",
		Short: "Show the handler registered for a scheme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.EnvOptions()
			if err != nil {
				return err
			}
			opts.Runner = d.runner

			disp := d.newDispatcher(opts)
			handlerName, err := disp.Query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			scheme, _ := disp.NormalizeScheme(args[0])
			return cliout.Print(uriReport{Scheme: scheme, Handler: handlerName, Status: "registered"}, func() {
				cliout.Label("Scheme", scheme)
				cliout.Label("Handler", handlerName)
			})
		},
	}
}

func newHandleCmd(d deps) *cobra.Command {
	var noNotify bool
	cmd := &cobra.Command{
		Use:   "handle <uri>",
		Short: "Receive a URI from the OS (registered as the handler command)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := args[0]
			scheme := uriScheme(uri)
			logutil.NewLogger("handle").WithScheme(scheme).Info("received uri", "uri", uri)

			if !noNotify && !security.IsContainerEnvironment() {
				err := d.notifier.Send(cmd.Context(), notify.Notification{
					Title:   "Received " + scheme + " link",
					Message: uri,
				})
				if err != nil {
					logutil.Warn("notification failed", "error", err)
				}
			}

			return cliout.Print(uriReport{URI: uri, Scheme: scheme, Status: "received"}, func() {
				cliout.Label("URI", uri)
				cliout.Label("Scheme", scheme)
			})
		},
	}
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "Do not show a desktop notification")
	return cmd
}

func uriScheme(uri string) string {
	if prefix, _, ok := strings.Cut(uri, ":"); ok {
		return strings.ToLower(prefix)
	}
	return ""
}
