// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package ffi adapts installation and URI dispatch to callers on the other
// side of a C ABI. Every call reports exactly one Result to its Sink,
// synchronously, before returning, whatever happens inside, including panics.
//
// The cgo exports live in cmd/libsysuri; this package holds the logic so it
// can be tested without a C toolchain.
package ffi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/config"
	"github.com/jongio/sysuri/handler"
	"github.com/jongio/sysuri/logutil"
)

// Result codes delivered across the boundary.
const (
	CodeOK                  int32 = 0
	CodeEncoding            int32 = -1
	CodeArtifactWrite       int32 = -2
	CodeDatabaseUpdate      int32 = -3
	CodeDispatch            int32 = -4
	CodeUnsupportedPlatform int32 = -5
	CodeInvalidScheme       int32 = -6
	CodeUnexpected          int32 = -100
)

// Result is the outcome of one call. Description is empty on success.
type Result struct {
	Code        int32
	Description string
}

// Sink receives the Result of a call.
type Sink interface {
	Deliver(Result)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Result)

// Deliver implements Sink.
func (f SinkFunc) Deliver(r Result) { f(r) }

// InstallRequest carries the raw install arguments.
type InstallRequest struct {
	BundleID string
	Vendor   string
	Name     string
	// Args is the executable followed by its arguments.
	Args []string
	// Icon is optional.
	Icon string
	// Schemes is a comma-separated scheme list.
	Schemes string
}

// Dispatcher is the subset of *handler.Dispatcher used here.
type Dispatcher interface {
	Install(ctx context.Context, a app.App, schemes ...string) error
	Open(ctx context.Context, uri string) error
}

// Boundary runs requests against a Dispatcher.
type Boundary struct {
	dispatcher Dispatcher
	log        *logutil.ComponentLogger
}

// New returns a Boundary using d.
func New(d Dispatcher) *Boundary {
	return &Boundary{dispatcher: d, log: logutil.NewLogger("ffi")}
}

var (
	defaultMu       sync.Mutex
	defaultBoundary *Boundary
)

// Default returns the Boundary for the platform backend, configured from
// SYSURI_* environment variables. Only a successful configuration is kept;
// after an error the environment is read again on the next call.
func Default() (*Boundary, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultBoundary != nil {
		return defaultBoundary, nil
	}
	opts, err := config.EnvOptions()
	if err != nil {
		return nil, err
	}
	defaultBoundary = New(handler.New(opts))
	return defaultBoundary, nil
}

// Install registers the described application and delivers the outcome.
func (b *Boundary) Install(req InstallRequest, sink Sink) {
	s := &onceSink{sink: sink}
	defer b.recoverInto(s)

	a, schemes, err := req.parse()
	if err != nil {
		s.Deliver(Result{Code: CodeEncoding, Description: err.Error()})
		return
	}

	b.log.Debug("install", "app", a.String(), "schemes", strings.Join(schemes, ","))
	s.Deliver(ResultFromError(b.dispatcher.Install(context.Background(), a, schemes...)))
}

// Open dispatches uri and delivers the outcome.
func (b *Boundary) Open(uri string, sink Sink) {
	s := &onceSink{sink: sink}
	defer b.recoverInto(s)

	if !utf8.ValidString(uri) {
		s.Deliver(Result{Code: CodeEncoding, Description: "uri is not valid UTF-8"})
		return
	}

	b.log.Debug("open", "uri", uri)
	s.Deliver(ResultFromError(b.dispatcher.Open(context.Background(), uri)))
}

func (b *Boundary) recoverInto(s *onceSink) {
	if r := recover(); r != nil {
		b.log.Error("recovered panic", "panic", r)
		s.Deliver(Result{Code: CodeUnexpected, Description: fmt.Sprintf("unexpected panic: %v", r)})
	}
}

func (req InstallRequest) parse() (app.App, []string, error) {
	fields := map[string]string{
		"bundle":  req.BundleID,
		"vendor":  req.Vendor,
		"name":    req.Name,
		"icon":    req.Icon,
		"schemes": req.Schemes,
	}
	for _, name := range []string{"bundle", "vendor", "name", "icon", "schemes"} {
		if !utf8.ValidString(fields[name]) {
			return app.App{}, nil, fmt.Errorf("%s is not valid UTF-8", name)
		}
	}
	for i, arg := range req.Args {
		if !utf8.ValidString(arg) {
			return app.App{}, nil, fmt.Errorf("exec_args[%d] is not valid UTF-8", i)
		}
	}
	if len(req.Args) == 0 {
		return app.App{}, nil, errors.New("exec_args is empty")
	}

	a, err := app.FromArgs(req.BundleID, req.Vendor, req.Name, req.Icon, req.Args...)
	if err != nil {
		return app.App{}, nil, err
	}
	return a, SplitSchemes(req.Schemes), nil
}

// SplitSchemes splits a comma-separated list, dropping empty entries.
func SplitSchemes(list string) []string {
	var schemes []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			schemes = append(schemes, s)
		}
	}
	return schemes
}

// ResultFromError maps an error from the handler package to a Result.
func ResultFromError(err error) Result {
	if err == nil {
		return Result{Code: CodeOK}
	}
	return Result{Code: codeOf(err), Description: err.Error()}
}

func codeOf(err error) int32 {
	switch handler.KindOf(err) {
	case handler.KindEncoding:
		return CodeEncoding
	case handler.KindArtifactWrite:
		return CodeArtifactWrite
	case handler.KindDatabaseUpdate:
		return CodeDatabaseUpdate
	case handler.KindDispatch:
		return CodeDispatch
	case handler.KindUnsupportedPlatform:
		return CodeUnsupportedPlatform
	case handler.KindInvalidScheme:
		return CodeInvalidScheme
	}
	if errors.Is(err, app.ErrInvalidApp) || errors.Is(err, handler.ErrNoSchemes) {
		return CodeEncoding
	}
	return CodeUnexpected
}

// onceSink forwards the first Result only.
type onceSink struct {
	sink Sink
	once sync.Once
}

func (s *onceSink) Deliver(r Result) {
	s.once.Do(func() {
		if s.sink != nil {
			s.sink.Deliver(r)
		}
	})
}
