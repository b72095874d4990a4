// Package fileutil provides the file system helpers used to write
// registration artifacts.
//
// Launcher descriptors are read by the desktop database and by the session's
// URI dispatcher at any time, so they are replaced atomically: content goes to
// a temporary file in the same directory, is synced, and is renamed over the
// target. A concurrent reader sees either the old or the new artifact, never a
// partial one.
//
// # Key Features
//
//   - Atomic file writes with retry on transient rename failures
//   - Directory creation with conventional permissions (0755)
//   - Existence checks
//
// # Example Usage
//
//	if err := fileutil.EnsureDir(appsDir); err != nil {
//	    return err
//	}
//	if err := fileutil.AtomicWriteFile(path, body, fileutil.FilePermission); err != nil {
//	    return err
//	}
package fileutil
