// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil provides the structured logger shared by sysuri packages.
//
// It wraps log/slog with a process-wide logger and component-scoped loggers
// that carry the scheme and backend being worked on.
//
// # Basic Usage
//
//	logutil.SetupLogger(logutil.LevelInfo, structured)
//
//	log := logutil.NewLogger("handler").WithBackend("xdg").WithScheme("myapp")
//	log.Debug("writing desktop entry", "path", path)
//	log.Warn("xdg-mime failed", "exitCode", code)
//
// # Levels
//
// The level comes from SetupLogger, from SYSURI_LOG_LEVEL (parsed with
// ParseLevel) or from SYSURI_DEBUG=true, which forces debug.
//
// # Structured Logging
//
// With structured=true (or SYSURI_LOG_FORMAT=json) records are emitted as JSON:
//
//	{"time":"2026-01-15T10:30:00Z","level":"INFO","msg":"scheme registered","component":"handler","scheme":"myapp"}
package logutil
