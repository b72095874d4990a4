// Package testutil provides helpers shared by the sysuri test suites.
//
// This package includes helpers for:
//   - Capturing stdout during test execution (CaptureOutput)
//   - Creating temporary directories with automatic cleanup (TempDir)
//   - Generating throwaway URI schemes (RandomScheme)
//   - Gating tests that change the real OS association database (RequireIntegration)
//
// All functions use t.Helper() for proper test line reporting.
//
// Example usage:
//
//	func TestInstallAndOpen(t *testing.T) {
//	    testutil.RequireIntegration(t)
//
//	    scheme := testutil.RandomScheme()
//	    dir := testutil.TempDir(t)
//	    // register scheme with a handler that writes into dir ...
//	}
package testutil
