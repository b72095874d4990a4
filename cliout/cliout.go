// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cliout

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the default human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
	Cyan         = "\033[36m"
)

// Unicode symbols
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolArrow   = "→"
)

// ASCII fallback symbols for terminals that don't support Unicode
const (
	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
	ASCIIArrow   = "->"
)

var (
	mu           sync.RWMutex
	globalFormat = FormatDefault
	// noColor starts from terminal detection; NoColor and ForceColor override it.
	noColor = detectNoColor()
)

var supportsUnicode = detectUnicodeSupport()

// detectNoColor disables color when NO_COLOR is set or stdout is not a terminal.
func detectNoColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd())) // #nosec G115 -- fd fits in int
}

// detectUnicodeSupport reports false only for legacy Windows consoles.
func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	for _, v := range []string{"WT_SESSION", "ConEmuPID", "PSModulePath", "TERM"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return os.Getenv("TERM_PROGRAM") == "vscode"
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

// color returns code, or "" when color is disabled.
func color(code string) string {
	mu.RLock()
	defer mu.RUnlock()
	if noColor {
		return ""
	}
	return code
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	mu.Lock()
	defer mu.Unlock()

	switch format {
	case "default", "":
		globalFormat = FormatDefault
	case "json":
		globalFormat = FormatJSON
	default:
		return fmt.Errorf("invalid output format: %s (valid options: default, json)", format)
	}
	return nil
}

// IsJSON returns true if the output format is JSON.
func IsJSON() bool {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat == FormatJSON
}

func printJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Print outputs data in the configured format.
// For default format, uses the formatter function.
// For JSON format, marshals the data object.
func Print(data any, formatter func()) error {
	if IsJSON() {
		return printJSON(data)
	}
	formatter()
	return nil
}

// Header prints a bold header with a divider
func Header(text string) {
	if IsJSON() {
		return
	}
	fmt.Printf("\n%s%s%s\n", color(Bold), text, color(Reset))
	fmt.Println(strings.Repeat("=", len(text)))
}

// Success prints a success message.
func Success(format string, args ...any) {
	if IsJSON() {
		return
	}
	printStatus(BrightGreen, getIcon(SymbolCheck, ASCIICheck), format, args...)
}

// Error prints an error message. It is printed in JSON mode too, on stderr.
func Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if IsJSON() {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	fmt.Printf("%s%s %s%s\n", color(BrightRed), getIcon(SymbolCross, ASCIICross), msg, color(Reset))
}

// Warning prints a warning message.
func Warning(format string, args ...any) {
	if IsJSON() {
		return
	}
	printStatus(BrightYellow, getIcon(SymbolWarning, ASCIIWarning), format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	if IsJSON() {
		return
	}
	printStatus(BrightBlue, getIcon(SymbolInfo, ASCIIInfo), format, args...)
}

func printStatus(code, icon, format string, args ...any) {
	fmt.Printf("%s%s %s%s\n", color(code), icon, fmt.Sprintf(format, args...), color(Reset))
}

// Label prints a label and value pair
func Label(label, value string) {
	fmt.Printf("   %s%-16s%s %s\n", color(Dim), label+":", color(Reset), value)
}

// Highlight returns text in bold cyan.
func Highlight(format string, args ...any) string {
	return color(Bold) + color(Cyan) + fmt.Sprintf(format, args...) + color(Reset)
}

// Status returns a status word colored by meaning.
func Status(status string) string {
	var code string
	switch strings.ToLower(status) {
	case "success", "ok", "registered", "found":
		code = BrightGreen
	case "warning", "skipped":
		code = BrightYellow
	case "error", "failed", "missing":
		code = BrightRed
	default:
		return status
	}
	return color(code) + status + color(Reset)
}

// TableRow represents a row in a table as a map of column header to value.
type TableRow map[string]string

// Table prints a simple table with the given headers and rows.
func Table(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make(map[string]int, len(headers))
	for _, header := range headers {
		widths[header] = len(header)
	}
	for _, row := range rows {
		for _, header := range headers {
			if len(row[header]) > widths[header] {
				widths[header] = len(row[header])
			}
		}
	}

	fmt.Print("   ")
	for _, header := range headers {
		fmt.Printf("%s%-*s%s  ", color(Bold), widths[header], header, color(Reset))
	}
	fmt.Println()

	fmt.Print("   ")
	for _, header := range headers {
		fmt.Print(strings.Repeat("─", widths[header]) + "  ")
	}
	fmt.Println()

	for _, row := range rows {
		fmt.Print("   ")
		for _, header := range headers {
			fmt.Printf("%-*s  ", widths[header], row[header])
		}
		fmt.Println()
	}
}
