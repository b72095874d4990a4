//go:build darwin && cgo

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package handler

/*
#cgo CFLAGS: -Wno-deprecated-declarations
#cgo LDFLAGS: -framework CoreServices -framework CoreFoundation
#include <CoreServices/CoreServices.h>
#include <stdlib.h>

enum { SYSURI_ENCODING_ERR = 0x7fffffff };

static OSStatus sysuri_set_handler(const char *scheme, const char *bundle) {
	CFStringRef s = CFStringCreateWithCString(kCFAllocatorDefault, scheme, kCFStringEncodingUTF8);
	CFStringRef b = CFStringCreateWithCString(kCFAllocatorDefault, bundle, kCFStringEncodingUTF8);
	if (s == NULL || b == NULL) {
		if (s != NULL) CFRelease(s);
		if (b != NULL) CFRelease(b);
		return SYSURI_ENCODING_ERR;
	}
	OSStatus status = LSSetDefaultHandlerForURLScheme(s, b);
	CFRelease(s);
	CFRelease(b);
	return status;
}

static int sysuri_copy_handler(const char *scheme, char *out, CFIndex size) {
	CFStringRef s = CFStringCreateWithCString(kCFAllocatorDefault, scheme, kCFStringEncodingUTF8);
	if (s == NULL) return 0;
	CFStringRef h = LSCopyDefaultHandlerForURLScheme(s);
	CFRelease(s);
	if (h == NULL) return 0;
	Boolean ok = CFStringGetCString(h, out, size, kCFStringEncodingUTF8);
	CFRelease(h);
	return ok ? 1 : 0;
}

static int sysuri_main_bundle_id(char *out, CFIndex size) {
	CFBundleRef bundle = CFBundleGetMainBundle();
	if (bundle == NULL) return 0;
	CFStringRef id = CFBundleGetIdentifier(bundle);
	if (id == NULL) return 0;
	return CFStringGetCString(id, out, size, kCFStringEncodingUTF8) ? 1 : 0;
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
	"unsafe"

	"github.com/jongio/sysuri/app"
	"github.com/jongio/sysuri/logutil"
)

const (
	launchServicesBackendName = "launchservices"
	cStringBufSize            = 1024
)

var errNotBundled = errors.New("process is not running from an application bundle; set allow_unbundled to try anyway")

// launchServicesBackend binds schemes to a bundle identifier through
// LaunchServices. The binding only takes effect for a bundled application.
type launchServicesBackend struct {
	opts Options
	log  *logutil.ComponentLogger
}

func newPlatformBackend(opts Options) Backend {
	return &launchServicesBackend{
		opts: opts,
		log:  logutil.NewLogger("handler").WithBackend(launchServicesBackendName),
	}
}

func (b *launchServicesBackend) Name() string { return launchServicesBackendName }

func (b *launchServicesBackend) NormalizeScheme(raw string) (string, error) {
	return normalizeScheme(raw, "")
}

func (b *launchServicesBackend) Register(_ context.Context, a app.App, schemes []string) []*SchemeError {
	if !utf8.ValidString(a.BundleID) {
		return failAll(schemes, KindEncoding, "convert bundle id", nil)
	}

	if id := mainBundleID(); id == "" {
		if !b.opts.AllowUnbundled {
			return failAll(schemes, KindUnsupportedPlatform, "check bundle", errNotBundled)
		}
		b.log.Warn("not running from an application bundle, registration may have no effect")
	} else if id != a.BundleID {
		b.log.Debug("main bundle differs from requested bundle id", "main", id, "requested", a.BundleID)
	}

	cBundle := C.CString(a.BundleID)
	defer C.free(unsafe.Pointer(cBundle))

	var failures []*SchemeError
	for _, s := range schemes {
		cScheme := C.CString(s)
		status := C.sysuri_set_handler(cScheme, cBundle)
		C.free(unsafe.Pointer(cScheme))

		switch {
		case status == C.SYSURI_ENCODING_ERR:
			failures = append(failures, newSchemeError(s, KindEncoding, "convert scheme", nil))
		case status != 0:
			failures = append(failures, newSchemeError(s, KindArtifactWrite, "set default handler",
				fmt.Errorf("LSSetDefaultHandlerForURLScheme returned OSStatus %d", int32(status))))
		default:
			b.log.WithScheme(s).Debug("default handler set", "bundle", a.BundleID)
		}
	}
	return failures
}

// Query returns the bundle identifier LaunchServices reports for scheme.
func (b *launchServicesBackend) Query(_ context.Context, scheme string) (string, error) {
	cScheme := C.CString(scheme)
	defer C.free(unsafe.Pointer(cScheme))

	buf := (*C.char)(C.malloc(cStringBufSize))
	defer C.free(unsafe.Pointer(buf))

	if C.sysuri_copy_handler(cScheme, buf, cStringBufSize) == 0 {
		return "", fmt.Errorf("scheme %q: %w", scheme, ErrNotRegistered)
	}
	return C.GoString(buf), nil
}

func (b *launchServicesBackend) Open(ctx context.Context, uri string) error {
	return openWithOS(ctx, uri)
}

// mainBundleID returns the identifier of the running bundle, or "" when the
// process is a bare executable.
func mainBundleID() string {
	buf := (*C.char)(C.malloc(cStringBufSize))
	defer C.free(unsafe.Pointer(buf))

	if C.sysuri_main_bundle_id(buf, cStringBufSize) == 0 {
		return ""
	}
	return C.GoString(buf)
}
