// Package security provides input validation for values that end up inside
// OS registration artifacts: registry keys, desktop entry files and
// LaunchServices calls.
//
// Every string handed to a backend is eventually written somewhere another
// process will parse it. A newline in an application name would start a new
// key in a desktop entry, and a NUL byte would silently truncate a registry
// value. Callers validate at the boundary with these helpers before any
// artifact is touched.
//
// # Key Features
//
//   - Bundle identifier validation (reverse-domain form)
//   - Display name validation (no control characters, bounded length)
//   - Executable path validation (absolute, no NUL or line breaks)
//   - Resource path validation (icons; rejects traversal sequences)
//   - Container environment detection, used by diagnostics
//
// # Example Usage
//
//	if err := security.ValidateBundleID("net.example.app"); err != nil {
//	    return err
//	}
//	if err := security.ValidateDisplayName("vendor", vendor); err != nil {
//	    return err
//	}
package security
