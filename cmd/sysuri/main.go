// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Command sysuri registers applications as OS handlers of custom URI schemes
// and opens URIs through the OS.
package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	os.Exit(run(os.Args[1:], defaultDeps()))
}
