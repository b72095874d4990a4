// Package cliout formats sysuri command output for people and for scripts.
//
// The default format prints short status lines with symbols and colors.
// Colors are turned off when stdout is not a terminal or NO_COLOR is set;
// symbols fall back to ASCII on legacy Windows consoles.
//
// With SetFormat("json"), status lines are suppressed and commands emit a
// single JSON document through Print. Errors still go to stderr.
//
//	cliout.Success("Registered %s", scheme)
//	_ = cliout.Print(result, func() {
//	    cliout.Label("Handler", result.Handler)
//	})
package cliout
