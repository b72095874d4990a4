// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warnings.
	LevelWarn
	// LevelError is for errors.
	LevelError
)

// Environment variable names for logging configuration.
const (
	// EnvDebug enables debug logging when set to "true".
	EnvDebug = "SYSURI_DEBUG"
	// EnvLogLevel sets the level by name (debug, info, warn, error).
	EnvLogLevel = "SYSURI_LOG_LEVEL"
	// EnvLogFormat selects JSON output when set to "json".
	EnvLogFormat = "SYSURI_LOG_FORMAT"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
)

func init() {
	level := LevelInfo
	if parsed, err := ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		level = parsed
	}
	if os.Getenv(EnvDebug) == "true" {
		level = LevelDebug
	}
	SetupLogger(level, strings.EqualFold(os.Getenv(EnvLogFormat), "json"))
}

// SetupLogger configures the global logger writing to stderr.
// This function is safe for concurrent use.
func SetupLogger(level Level, structured bool) {
	setupWithWriter(os.Stderr, level, structured)
}

func setupWithWriter(w io.Writer, level Level, structured bool) {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: level.slogLevel()}

	var handler slog.Handler
	if structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a level name. Valid values are "debug", "info", "warn",
// "warning" and "error"; the empty string is LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q (valid options: debug, info, warn, error)", s)
	}
}

func logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}
