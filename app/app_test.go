// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package app

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/sysuri/cmdline"
)

func testExec(elem ...string) string {
	root := "/opt"
	if runtime.GOOS == "windows" {
		root = `C:\apps`
	}
	return filepath.Join(append([]string{root}, elem...)...)
}

func TestNew(t *testing.T) {
	exe := testExec("example")

	tests := []struct {
		name    string
		bundle  string
		vendor  string
		appName string
		exec    string
		icon    string
		wantErr bool
	}{
		{"valid", "net.maidsafe.example", "MaidSafe", "Example1", exe, "", false},
		{"valid with args", "net.maidsafe.example", "MaidSafe", "Example2", exe + " arg1 arg2", "", false},
		{"valid with icon", "net.maidsafe.example", "MaidSafe", "Example", exe, "/usr/share/icons/example.png", false},
		{"quoted path with space", "net.maidsafe.example", "MaidSafe", "Example", cmdline.Encode(testExec("my app", "bin")), "", false},
		{"missing bundle", "", "MaidSafe", "Example", exe, "", true},
		{"missing vendor", "net.maidsafe.example", "", "Example", exe, "", true},
		{"missing name", "net.maidsafe.example", "MaidSafe", "", exe, "", true},
		{"name only dots", "net.maidsafe.example", "MaidSafe", "...", exe, "", true},
		{"missing exec", "net.maidsafe.example", "MaidSafe", "Example", "", "", true},
		{"relative exec", "net.maidsafe.example", "MaidSafe", "Example", "bin/example", "", true},
		{"icon traversal", "net.maidsafe.example", "MaidSafe", "Example", exe, "../../icon.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.bundle, tt.vendor, tt.appName, tt.exec, tt.icon)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidApp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.exec, a.Exec)
		})
	}
}

func TestFromArgs(t *testing.T) {
	exe := testExec("test after_white_space")

	a, err := FromArgs("net.maidsafe.example", "MaidSafe", "Example3", "", exe, "arg2")
	require.NoError(t, err)

	tokens, err := cmdline.Split(a.Exec)
	require.NoError(t, err)
	assert.Equal(t, []string{exe, "arg2"}, tokens)

	got, err := a.Executable()
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = FromArgs("net.maidsafe.example", "MaidSafe", "Example3", "")
	assert.ErrorIs(t, err, ErrInvalidApp)
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MaidSafe", "maidsafe"},
		{"Example.App", "exampleapp"},
		{"a/b/c", "abc"},
		{"testschema-ABC-42", "testschema-abc-42"},
		{"net.maidsafe", "netmaidsafe"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArtifactNameDeterminism(t *testing.T) {
	a := App{BundleID: "net.maidsafe.example", Vendor: "MaidSafe", Name: "Example1", Exec: testExec("one")}
	b := App{BundleID: "org.other.bundle", Vendor: "MaidSafe", Name: "Example1", Exec: testExec("two") + " arg", Icon: "icon"}

	assert.Equal(t, "maidsafe-example1.desktop", a.ArtifactName())
	assert.Equal(t, a.ArtifactName(), b.ArtifactName(), "other fields must not influence the name")

	c := App{Vendor: "MaidSafe", Name: "Example2"}
	assert.NotEqual(t, a.ArtifactName(), c.ArtifactName())

	// Names that normalize to the same form collide on purpose.
	assert.Equal(t, ArtifactName("Maid.Safe", "Ex/ample"), ArtifactName("maidsafe", "example"))
}
