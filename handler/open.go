// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/pkg/browser"

	"github.com/jongio/sysuri/cmdutil"
)

// browserMu guards the package-level output writers of pkg/browser.
var browserMu sync.Mutex

// openURL is replaced in tests.
var openURL = browser.OpenURL

// openWithOS hands uri to the OS resolver (xdg-open, open or
// url.dll,FileProtocolHandler) and captures what the helper prints.
// pkg/browser starts the helper without a context, so ctx is only checked
// before the call; a helper already running is not interrupted.
func openWithOS(ctx context.Context, uri string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	browserMu.Lock()
	defer browserMu.Unlock()

	var out bytes.Buffer
	prevOut, prevErr := browser.Stdout, browser.Stderr
	browser.Stdout, browser.Stderr = &out, &out
	defer func() {
		browser.Stdout, browser.Stderr = prevOut, prevErr
	}()

	if err := openURL(uri); err != nil {
		cmdErr := &cmdutil.CommandError{
			Command:  []string{"open", uri},
			ExitCode: -1,
			Output:   out.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return cmdErr
	}
	return nil
}
