// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import "log/slog"

// ComponentLogger provides component-scoped structured logging.
type ComponentLogger struct {
	slogger *slog.Logger
}

// NewLogger creates a logger scoped to a named component.
// The logger captures the global handler at creation time.
func NewLogger(component string) *ComponentLogger {
	return &ComponentLogger{slogger: logger().With("component", component)}
}

// WithScheme returns a new logger with the URI scheme added.
func (l *ComponentLogger) WithScheme(scheme string) *ComponentLogger {
	return l.with("scheme", scheme)
}

// WithBackend returns a new logger with the registration backend added.
func (l *ComponentLogger) WithBackend(name string) *ComponentLogger {
	return l.with("backend", name)
}

func (l *ComponentLogger) with(fields ...any) *ComponentLogger {
	return &ComponentLogger{slogger: l.slogger.With(fields...)}
}

// Debug logs a message at debug level.
func (l *ComponentLogger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs a message at info level.
func (l *ComponentLogger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs a message at warn level.
func (l *ComponentLogger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs a message at error level.
func (l *ComponentLogger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}
