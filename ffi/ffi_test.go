package ffi

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/handler"
)

type fakeDispatcher struct {
	installErr error
	openErr    error
	panicWith  any

	installed []app.App
	schemes   [][]string
	opened    []string
}

func (f *fakeDispatcher) Install(_ context.Context, a app.App, schemes ...string) error {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.installed = append(f.installed, a)
	f.schemes = append(f.schemes, schemes)
	return f.installErr
}

func (f *fakeDispatcher) Open(_ context.Context, uri string) error {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.opened = append(f.opened, uri)
	return f.openErr
}

// recorder counts deliveries.
type recorder struct {
	results []Result
}

func (r *recorder) Deliver(res Result) { r.results = append(r.results, res) }

func (r *recorder) only(t *testing.T) Result {
	t.Helper()
	require.Len(t, r.results, 1, "exactly one delivery per call")
	return r.results[0]
}

func testArgs() []string {
	if runtime.GOOS == "windows" {
		return []string{`C:\Program Files\Test\test.exe`, "--uri"}
	}
	return []string{"/opt/Test App/test", "--uri"}
}

func validRequest() InstallRequest {
	return InstallRequest{
		BundleID: "net.maidsafe.test",
		Vendor:   "MaidSafe.net Ltd",
		Name:     "Test",
		Args:     testArgs(),
		Schemes:  "safe-auth, safe,,",
	}
}

func TestInstallSuccess(t *testing.T) {
	fd := &fakeDispatcher{}
	rec := &recorder{}

	New(fd).Install(validRequest(), rec)

	assert.Equal(t, Result{Code: CodeOK}, rec.only(t))
	require.Len(t, fd.installed, 1)
	assert.Equal(t, [][]string{{"safe-auth", "safe"}}, fd.schemes)

	exe, err := fd.installed[0].Executable()
	require.NoError(t, err)
	assert.Equal(t, testArgs()[0], exe)
}

func TestInstallEncodingErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InstallRequest)
	}{
		{"invalid utf8 name", func(r *InstallRequest) { r.Name = "bad\xff" }},
		{"invalid utf8 arg", func(r *InstallRequest) { r.Args = append(r.Args, "\xfe") }},
		{"invalid utf8 schemes", func(r *InstallRequest) { r.Schemes = "\xff" }},
		{"no exec args", func(r *InstallRequest) { r.Args = nil }},
		{"missing bundle", func(r *InstallRequest) { r.BundleID = "" }},
		{"relative exec", func(r *InstallRequest) { r.Args = []string{"test"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := &fakeDispatcher{}
			rec := &recorder{}
			req := validRequest()
			tt.mutate(&req)

			New(fd).Install(req, rec)

			res := rec.only(t)
			assert.Equal(t, CodeEncoding, res.Code)
			assert.NotEmpty(t, res.Description)
			assert.Empty(t, fd.installed)
		})
	}
}

func TestInstallMapsErrorKinds(t *testing.T) {
	tests := []struct {
		kind handler.Kind
		want int32
	}{
		{handler.KindEncoding, CodeEncoding},
		{handler.KindArtifactWrite, CodeArtifactWrite},
		{handler.KindDatabaseUpdate, CodeDatabaseUpdate},
		{handler.KindDispatch, CodeDispatch},
		{handler.KindUnsupportedPlatform, CodeUnsupportedPlatform},
		{handler.KindInvalidScheme, CodeInvalidScheme},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &handler.InstallError{Attempted: 1, Failures: []*handler.SchemeError{
				{Scheme: "safe", Kind: tt.kind, Err: errors.New("boom")},
			}}
			rec := &recorder{}
			New(&fakeDispatcher{installErr: err}).Install(validRequest(), rec)

			res := rec.only(t)
			assert.Equal(t, tt.want, res.Code)
			assert.Contains(t, res.Description, "boom")
		})
	}
}

func TestResultFromError(t *testing.T) {
	assert.Equal(t, Result{Code: CodeOK}, ResultFromError(nil))
	assert.Equal(t, CodeEncoding, ResultFromError(handler.ErrNoSchemes).Code)
	assert.Equal(t, CodeEncoding, ResultFromError(fmt.Errorf("%w: x", app.ErrInvalidApp)).Code)
	assert.Equal(t, CodeUnexpected, ResultFromError(errors.New("other")).Code)
}

func TestInstallRecoversPanic(t *testing.T) {
	rec := &recorder{}
	New(&fakeDispatcher{panicWith: "kaboom"}).Install(validRequest(), rec)

	res := rec.only(t)
	assert.Equal(t, CodeUnexpected, res.Code)
	assert.Contains(t, res.Description, "kaboom")
}

func TestOpen(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fd := &fakeDispatcher{}
		rec := &recorder{}
		New(fd).Open("safe-auth:abc", rec)

		assert.Equal(t, Result{Code: CodeOK}, rec.only(t))
		assert.Equal(t, []string{"safe-auth:abc"}, fd.opened)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		err := &handler.SchemeError{Scheme: "nope", Kind: handler.KindDispatch, Err: errors.New("no handler")}
		rec := &recorder{}
		New(&fakeDispatcher{openErr: err}).Open("nope:x", rec)

		assert.Equal(t, CodeDispatch, rec.only(t).Code)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		fd := &fakeDispatcher{}
		rec := &recorder{}
		New(fd).Open("safe:\xff", rec)

		assert.Equal(t, CodeEncoding, rec.only(t).Code)
		assert.Empty(t, fd.opened)
	})

	t.Run("panic", func(t *testing.T) {
		rec := &recorder{}
		New(&fakeDispatcher{panicWith: errors.New("bad")}).Open("a:b", rec)
		assert.Equal(t, CodeUnexpected, rec.only(t).Code)
	})
}

func TestSinkFuncAndNilSink(t *testing.T) {
	var got Result
	New(&fakeDispatcher{}).Open("a:b", SinkFunc(func(r Result) { got = r }))
	assert.Equal(t, CodeOK, got.Code)

	assert.NotPanics(t, func() {
		New(&fakeDispatcher{}).Open("a:b", nil)
	})
}

func TestSplitSchemes(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitSchemes(" a ,b,"))
	assert.Nil(t, SplitSchemes(""))
	assert.Nil(t, SplitSchemes(" , "))
}

func TestDefaultRetriesAfterBadEnvironment(t *testing.T) {
	resetDefault := func() {
		defaultMu.Lock()
		defaultBoundary = nil
		defaultMu.Unlock()
	}
	resetDefault()
	t.Cleanup(resetDefault)

	t.Setenv("SYSURI_SCOPE", "galaxy")
	_, err := Default()
	require.Error(t, err)

	t.Setenv("SYSURI_SCOPE", "user")
	b, err := Default()
	require.NoError(t, err)
	require.NotNil(t, b)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, b, again)
}
