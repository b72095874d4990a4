// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmdline

import "errors"

// ErrEmptyCommand is returned when a command line holds no tokens.
var ErrEmptyCommand = errors.New("empty command line")
