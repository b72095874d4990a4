// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/jongio/sysuri/app"
)

const (
	desktopEntryGroup = "[Desktop Entry]"
	// bundleIDKey records the bundle identifier that produced the entry.
	bundleIDKey = "X-Sysuri-Bundle-Id"
)

// desktopEntry is the launcher descriptor written by the xdg backend.
type desktopEntry struct {
	Name      string
	Exec      string
	Icon      string
	BundleID  string
	MimeTypes []string
}

func newDesktopEntry(a app.App, mimeTypes []string) desktopEntry {
	return desktopEntry{
		Name:      a.Name,
		Exec:      a.Exec,
		Icon:      a.Icon,
		BundleID:  a.BundleID,
		MimeTypes: mimeTypes,
	}
}

// render returns the file body. The output only depends on the entry, so
// rendering the same entry twice yields identical bytes.
func (e desktopEntry) render() []byte {
	var b bytes.Buffer
	b.WriteString(desktopEntryGroup + "\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Version=1.0\n")
	b.WriteString("Name=" + escapeDesktopString(e.Name) + "\n")
	b.WriteString("Exec=" + escapeDesktopExec(e.Exec) + " %u\n")
	if e.Icon != "" {
		b.WriteString("Icon=" + escapeDesktopString(e.Icon) + "\n")
	}
	b.WriteString("Terminal=false\n")
	b.WriteString("NoDisplay=true\n")
	if len(e.MimeTypes) > 0 {
		b.WriteString("MimeType=" + strings.Join(e.MimeTypes, ";") + ";\n")
	}
	b.WriteString(bundleIDKey + "=" + escapeDesktopString(e.BundleID) + "\n")
	return b.Bytes()
}

var desktopStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// escapeDesktopString applies the escapes of the "string" value type.
func escapeDesktopString(s string) string {
	return desktopStringEscaper.Replace(s)
}

// escapeDesktopExec escapes an already quoted command line for the Exec key.
// Quoting inside the command is left as is; the string escapes are applied
// on top and literal percent signs are doubled so they are not read as
// field codes.
func escapeDesktopExec(cmd string) string {
	return strings.ReplaceAll(escapeDesktopString(cmd), "%", "%%")
}

// parseMimeTypes returns the MimeType list declared in the [Desktop Entry]
// group of data. Unknown groups and keys are ignored.
func parseMimeTypes(data []byte) []string {
	var types []string
	inEntry := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == desktopEntryGroup
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "MimeType" {
			continue
		}
		for _, t := range strings.Split(value, ";") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

// mergeMimeTypes keeps existing in order, then appends the entries of added
// that are not present yet.
func mergeMimeTypes(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	merged := make([]string, 0, len(existing)+len(added))
	for _, list := range [][]string{existing, added} {
		for _, t := range list {
			if seen[t] {
				continue
			}
			seen[t] = true
			merged = append(merged, t)
		}
	}
	return merged
}
