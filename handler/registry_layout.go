// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"github.com/jongio/sysuri/app"
)

// classesRoot is the key, relative to HKCU or HKLM, that holds URL protocols.
const classesRoot = `Software\Classes`

// registryValue is one string value to write. An empty Name is the key's
// default value.
type registryValue struct {
	Path  string
	Name  string
	Value string
}

// registryLayout returns the values that register a as the handler of scheme,
// parents before children.
func registryLayout(a app.App, scheme string) []registryValue {
	key := classesRoot + `\` + scheme
	values := []registryValue{
		{Path: key, Name: "", Value: "URL:" + a.Name},
		{Path: key, Name: "URL Protocol", Value: ""},
	}
	if a.Icon != "" {
		values = append(values, registryValue{Path: key + `\DefaultIcon`, Value: a.Icon})
	}
	values = append(values, registryValue{
		Path:  key + `\shell\open\command`,
		Value: registryCommand(a.Exec),
	})
	return values
}

// registryCommand appends the quoted URI placeholder to the stored command.
func registryCommand(exec string) string {
	return exec + ` "%1"`
}
