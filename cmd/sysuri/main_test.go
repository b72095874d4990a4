package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/cmdutil"
	"github.com/jongio/sysuri/handler"
	"github.com/jongio/sysuri/notify"
	"github.com/jongio/sysuri/testutil"
)

type fakeBackend struct {
	fail     map[string]bool
	handlers map[string]string

	apps    []app.App
	schemes [][]string
	opened  []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) NormalizeScheme(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || strings.ContainsAny(s, " :/") {
		return "", fmt.Errorf("invalid scheme %q", raw)
	}
	return s, nil
}

func (f *fakeBackend) Register(_ context.Context, a app.App, schemes []string) []*handler.SchemeError {
	f.apps = append(f.apps, a)
	f.schemes = append(f.schemes, schemes)
	var failures []*handler.SchemeError
	for _, s := range schemes {
		if f.fail[s] {
			failures = append(failures, &handler.SchemeError{Scheme: s, Kind: handler.KindDatabaseUpdate, ExitCode: 2, Err: errors.New("xdg-mime failed")})
		}
	}
	return failures
}

func (f *fakeBackend) Query(_ context.Context, scheme string) (string, error) {
	if h, ok := f.handlers[scheme]; ok {
		return h, nil
	}
	return "", handler.ErrNotRegistered
}

func (f *fakeBackend) Open(_ context.Context, uri string) error {
	f.opened = append(f.opened, uri)
	return nil
}

type fakeNotifier struct {
	sent []notify.Notification
}

func (n *fakeNotifier) Send(_ context.Context, msg notify.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

func testExe() string {
	if runtime.GOOS == "windows" {
		return `C:\Program Files\Example\app.exe`
	}
	return "/opt/Example App/app"
}

func testDeps(fb *fakeBackend, n *fakeNotifier) deps {
	return deps{
		newDispatcher: func(handler.Options) *handler.Dispatcher { return handler.NewDispatcher(fb) },
		runner:        &cmdutil.MockRunner{},
		notifier:      n,
		executable:    func() (string, error) { return testExe(), nil },
	}
}

func runCLI(t *testing.T, d deps, args ...string) (int, string) {
	t.Helper()
	var code int
	out := testutil.CaptureOutput(t, func() error {
		code = run(args, d)
		return nil
	})
	return code, out
}

func TestInstallFromFlags(t *testing.T) {
	fb := &fakeBackend{}
	code, out := runCLI(t, testDeps(fb, nil),
		"install", "-o", "json",
		"--bundle-id", "net.example.app", "--vendor", "Example", "--name", "App",
		"--exec", testExe(), "--arg", "--uri",
		"Example-App", "example-app")

	require.Equal(t, 0, code, out)
	require.Len(t, fb.apps, 1)
	assert.Equal(t, [][]string{{"example-app"}}, fb.schemes)

	exe, err := fb.apps[0].Executable()
	require.NoError(t, err)
	assert.Equal(t, testExe(), exe)

	var report installReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "fake", report.Backend)
	assert.Equal(t, []schemeResult{{Scheme: "example-app", Status: "registered"}}, report.Schemes)
}

func TestInstallDefaultsToSelf(t *testing.T) {
	fb := &fakeBackend{}
	code, _ := runCLI(t, testDeps(fb, nil),
		"install", "--bundle-id", "net.example.app", "--vendor", "Example", "--name", "App", "demo")

	require.Equal(t, 0, code)
	require.Len(t, fb.apps, 1)
	assert.Contains(t, fb.apps[0].Exec, "handle")
}

func TestInstallPartialFailure(t *testing.T) {
	fb := &fakeBackend{fail: map[string]bool{"bad": true}}
	code, out := runCLI(t, testDeps(fb, nil),
		"install", "-o", "json",
		"--bundle-id", "net.example.app", "--vendor", "Example", "--name", "App",
		"--exec", testExe(), "good", "bad")

	assert.Equal(t, 1, code)

	var report installReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Schemes, 2)
	assert.Equal(t, "registered", report.Schemes[0].Status)
	assert.Equal(t, "failed", report.Schemes[1].Status)
	assert.Equal(t, "database_update", report.Schemes[1].Kind)
	assert.Equal(t, 2, report.Schemes[1].ExitCode)
}

func TestInstallFromManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	manifest := "bundle_id: net.example.app\nvendor: Example\nname: From File\nexec: '" + testExe() + "'\nschemes: [one, two]\n"
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

	fb := &fakeBackend{}
	code, out := runCLI(t, testDeps(fb, nil), "install", "--manifest", path, "--name", "From Flag")

	require.Equal(t, 0, code, out)
	require.Len(t, fb.apps, 1)
	assert.Equal(t, "From Flag", fb.apps[0].Name)
	assert.Equal(t, [][]string{{"one", "two"}}, fb.schemes)
}

func TestInstallManifestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	manifest := "bundle_id: net.example.app\nvendor: Example\nname: Env App\nexec: '" + testExe() + "'\nschemes: [env-scheme]\n"
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))
	t.Setenv("SYSURI_MANIFEST", path)

	fb := &fakeBackend{}
	code, out := runCLI(t, testDeps(fb, nil), "install", "-o", "json")

	require.Equal(t, 0, code, out)
	var report installReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "fake", report.Backend)
	assert.Equal(t, []schemeResult{{Scheme: "env-scheme", Status: "registered"}}, report.Schemes)

	code, _ = runCLI(t, testDeps(&fakeBackend{}, nil), "install", "-m", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
}

func TestInstallWithoutSchemes(t *testing.T) {
	fb := &fakeBackend{}
	code, _ := runCLI(t, testDeps(fb, nil),
		"install", "--bundle-id", "net.example.app", "--vendor", "Example", "--name", "App")

	assert.Equal(t, 1, code)
	assert.Empty(t, fb.apps)
}

func TestOpenCommand(t *testing.T) {
	fb := &fakeBackend{}
	code, _ := runCLI(t, testDeps(fb, nil), "open", "example-app:hello")

	require.Equal(t, 0, code)
	assert.Equal(t, []string{"example-app:hello"}, fb.opened)

	code, _ = runCLI(t, testDeps(fb, nil), "open", "no-scheme")
	assert.Equal(t, 1, code)
}

func TestQueryCommand(t *testing.T) {
	fb := &fakeBackend{handlers: map[string]string{"example-app": "example-app.desktop"}}

	code, out := runCLI(t, testDeps(fb, nil), "query", "-o", "json", "Example-App")
	require.Equal(t, 0, code)

	var report uriReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "example-app", report.Scheme)
	assert.Equal(t, "example-app.desktop", report.Handler)

	code, _ = runCLI(t, testDeps(fb, nil), "query", "unknown")
	assert.Equal(t, 1, code)
}

func TestHandleCommand(t *testing.T) {
	t.Setenv("CODESPACES", "")
	t.Setenv("REMOTE_CONTAINERS", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")

	n := &fakeNotifier{}
	code, out := runCLI(t, testDeps(&fakeBackend{}, n), "handle", "-o", "json", "Example-App:open?id=1")
	require.Equal(t, 0, code)

	var report uriReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "example-app", report.Scheme)
	assert.Equal(t, "received", report.Status)

	code, _ = runCLI(t, testDeps(&fakeBackend{}, n), "handle", "--no-notify", "example-app:x")
	require.Equal(t, 0, code)
	assert.LessOrEqual(t, len(n.sent), 1, "--no-notify must not send")
}

func TestOutputFromEnv(t *testing.T) {
	t.Setenv("SYSURI_OUTPUT", "json")

	code, out := runCLI(t, testDeps(&fakeBackend{}, nil), "version")
	require.Equal(t, 0, code)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "fake", info["backend"])
}

func TestInvalidEnvValue(t *testing.T) {
	t.Setenv("SYSURI_DEBUG", "sometimes")

	code, _ := runCLI(t, testDeps(&fakeBackend{}, nil), "version")
	assert.Equal(t, 1, code)
}

func TestLogLevelFlag(t *testing.T) {
	code, _ := runCLI(t, testDeps(&fakeBackend{}, nil), "--log-level", "warn", "version")
	assert.Equal(t, 0, code)

	code, _ = runCLI(t, testDeps(&fakeBackend{}, nil), "--log-level", "verbose", "version")
	assert.Equal(t, 1, code)

	t.Setenv("SYSURI_LOG_LEVEL", "loud")
	code, _ = runCLI(t, testDeps(&fakeBackend{}, nil), "version")
	assert.Equal(t, 1, code)
}

func TestColorFlag(t *testing.T) {
	code, out := runCLI(t, testDeps(&fakeBackend{}, nil), "--color", "never", "version")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "\033[")

	code, _ = runCLI(t, testDeps(&fakeBackend{}, nil), "--color", "rainbow", "version")
	assert.Equal(t, 1, code)
}

func TestMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysuri.prom")
	fb := &fakeBackend{}

	code, _ := runCLI(t, testDeps(fb, nil), "--metrics-file", path, "open", "example-app:x")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sysuri_dispatch_total")
}

func TestDoctorCommand(t *testing.T) {
	code, out := runCLI(t, testDeps(&fakeBackend{}, nil), "doctor", "-o", "json")
	require.Equal(t, 0, code, out)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "fake", report["backend"])
	assert.NotEmpty(t, report["tools"])
}
