// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package metrics exposes Prometheus collectors for scheme registration and
// URI dispatch.
//
// Collectors are registered on Registry, not the default registerer.
// Short-lived CLI invocations export them with WriteTextfile.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Registry holds every sysuri collector.
var Registry = prometheus.NewRegistry()

var (
	installDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sysuri_install_duration_seconds",
			Help:    "Duration of install calls in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"backend", "status"},
	)

	installTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysuri_install_total",
			Help: "Total number of install calls",
		},
		[]string{"backend", "status"},
	)

	schemeRegistrations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysuri_scheme_registrations_total",
			Help: "Per-scheme registration attempts by outcome",
		},
		[]string{"backend", "status", "error_kind"},
	)

	dispatchTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysuri_dispatch_total",
			Help: "Total number of URI open requests handed to the OS",
		},
		[]string{"backend", "status"},
	)

	commandFailures = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysuri_external_command_failures_total",
			Help: "Failed invocations of external database-update commands",
		},
		[]string{"command"},
	)
)

// RecordInstall records one install call.
func RecordInstall(backend string, ok bool, elapsed time.Duration) {
	labels := prometheus.Labels{"backend": backend, "status": status(ok)}
	installDuration.With(labels).Observe(elapsed.Seconds())
	installTotal.With(labels).Inc()
}

// RecordScheme records the outcome of one scheme. errorKind is empty on success.
func RecordScheme(backend, errorKind string) {
	st := StatusSuccess
	if errorKind != "" {
		st = StatusFailure
	}
	schemeRegistrations.With(prometheus.Labels{
		"backend":    backend,
		"status":     st,
		"error_kind": errorKind,
	}).Inc()
}

// RecordDispatch records one open request.
func RecordDispatch(backend string, ok bool) {
	dispatchTotal.With(prometheus.Labels{"backend": backend, "status": status(ok)}).Inc()
}

// RecordCommandFailure records a failed external command by program name.
func RecordCommandFailure(command string) {
	commandFailures.With(prometheus.Labels{"command": command}).Inc()
}

// WriteTextfile writes the current values in the Prometheus text format.
func WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func status(ok bool) string {
	if ok {
		return StatusSuccess
	}
	return StatusFailure
}
