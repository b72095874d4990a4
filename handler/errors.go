// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jongio/sysuri/cmdutil"
)

// Kind classifies a per-scheme failure.
type Kind int

const (
	// KindEncoding reports an invalid or non-UTF-8 string input.
	KindEncoding Kind = iota + 1
	// KindArtifactWrite reports a failed file or registry write.
	KindArtifactWrite
	// KindDatabaseUpdate reports a failed external database refresh.
	KindDatabaseUpdate
	// KindDispatch reports that the OS could not dispatch a URI.
	KindDispatch
	// KindUnsupportedPlatform reports a capability missing in this context.
	KindUnsupportedPlatform
	// KindInvalidScheme reports a scheme name the backend cannot store.
	KindInvalidScheme
)

// Sentinel errors, one per Kind. A *SchemeError matches its Kind's sentinel
// with errors.Is.
var (
	ErrEncoding            = errors.New("invalid string encoding")
	ErrArtifactWrite       = errors.New("failed to write registration artifact")
	ErrDatabaseUpdate      = errors.New("association database update failed")
	ErrDispatch            = errors.New("failed to dispatch URI")
	ErrUnsupportedPlatform = errors.New("not supported in this context")
	ErrInvalidScheme       = errors.New("invalid URI scheme")

	// ErrNoSchemes is returned by Install when no scheme is given.
	ErrNoSchemes = errors.New("no schemes given")
	// ErrNotRegistered is returned by Query when no handler is registered.
	ErrNotRegistered = errors.New("no handler registered")
)

// String returns the snake_case name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindArtifactWrite:
		return "artifact_write"
	case KindDatabaseUpdate:
		return "database_update"
	case KindDispatch:
		return "dispatch"
	case KindUnsupportedPlatform:
		return "unsupported_platform"
	case KindInvalidScheme:
		return "invalid_scheme"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindEncoding:
		return ErrEncoding
	case KindArtifactWrite:
		return ErrArtifactWrite
	case KindDatabaseUpdate:
		return ErrDatabaseUpdate
	case KindDispatch:
		return ErrDispatch
	case KindUnsupportedPlatform:
		return ErrUnsupportedPlatform
	case KindInvalidScheme:
		return ErrInvalidScheme
	default:
		return nil
	}
}

// SchemeError is the failure of one scheme (or of one open request).
type SchemeError struct {
	// Scheme is the normalized scheme, or the raw input when normalization failed.
	Scheme string
	Kind   Kind
	// Step names what was being done, e.g. "write desktop entry".
	Step string
	// ExitCode and Output are set when an external command failed.
	ExitCode int
	Output   string
	Err      error
}

func newSchemeError(scheme string, kind Kind, step string, err error) *SchemeError {
	se := &SchemeError{Scheme: scheme, Kind: kind, Step: step, Err: err}
	var cmdErr *cmdutil.CommandError
	if errors.As(err, &cmdErr) {
		se.ExitCode = cmdErr.ExitCode
		se.Output = cmdErr.Output
	}
	return se
}

// Error implements error.
func (e *SchemeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scheme %q: ", e.Scheme)
	if e.Step != "" {
		b.WriteString(e.Step)
		b.WriteString(": ")
	}
	if s := e.Kind.sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString("failed")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the Kind sentinel and the cause.
func (e *SchemeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// InstallError aggregates the failed schemes of one Install call.
type InstallError struct {
	// Attempted is the number of distinct schemes the call tried.
	Attempted int
	Failures  []*SchemeError
}

// Error implements error.
func (e *InstallError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("install failed for %d of %d schemes: %s",
		len(e.Failures), e.Attempted, strings.Join(msgs, "; "))
}

// Unwrap returns the per-scheme errors.
func (e *InstallError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Failed reports whether scheme is among the failures.
func (e *InstallError) Failed(scheme string) bool {
	for _, f := range e.Failures {
		if f.Scheme == scheme {
			return true
		}
	}
	return false
}

// KindOf returns the Kind of the first *SchemeError found in err's tree,
// or 0 when there is none.
func KindOf(err error) Kind {
	var se *SchemeError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

var errMissingScheme = errors.New("uri has no scheme")
