// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package notify raises desktop notifications, used to show that a
// registered handler received a URI.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"
)

// Notification is one desktop notification.
type Notification struct {
	Title   string
	Message string
	// Icon is an optional icon path.
	Icon string
}

// Notifier sends notifications to the OS notification system.
type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

// Config contains notification system configuration.
type Config struct {
	// AppName prefixes titles that do not already mention it.
	AppName string
	// Disabled turns Send into a no-op, e.g. in containers without a session bus.
	Disabled bool
}

// DefaultConfig returns default notification configuration.
func DefaultConfig() Config {
	return Config{AppName: "sysuri"}
}

// ErrNotificationFailed wraps errors returned by the OS notification system.
var ErrNotificationFailed = errors.New("failed to send notification")

// notifyFunc is replaced in tests.
var notifyFunc = func(title, message, icon string) error {
	return beeep.Notify(title, message, icon)
}

// New returns a notifier backed by beeep.
func New(config Config) Notifier {
	return &beeepNotifier{config: config}
}

type beeepNotifier struct {
	config Config
}

// Send sends a notification using beeep.
func (n *beeepNotifier) Send(ctx context.Context, notification Notification) error {
	if n.config.Disabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	title := notification.Title
	if app := n.config.AppName; app != "" && !strings.Contains(title, app) {
		title = strings.TrimSpace(app + ": " + title)
	}

	if err := notifyFunc(title, notification.Message, notification.Icon); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}
