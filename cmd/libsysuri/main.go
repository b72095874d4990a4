// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Command libsysuri builds the C shared library:
//
//	go build -buildmode=c-shared -o libsysuri.so ./cmd/libsysuri
//
// Both exports report their outcome through cb exactly once, on the calling
// thread, before returning. The FfiResult and its description are only valid
// for the duration of the callback.
package main

/*
#include <stdlib.h>
#include "sysuri.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/jongio/sysuri/ffi"
)

func main() {}

// callbackSink delivers a Result to a C callback.
type callbackSink struct {
	cb       C.sysuri_callback
	userData unsafe.Pointer
}

func (s callbackSink) Deliver(r ffi.Result) {
	var desc *C.char
	if r.Description != "" {
		desc = C.CString(r.Description)
		defer C.free(unsafe.Pointer(desc))
	}
	C.sysuri_deliver(s.cb, s.userData, C.int32_t(r.Code), desc)
}

// install registers the application described by the arguments as the
// handler of a comma-separated scheme list. icon may be NULL.
//
//export install
func install(bundle, vendor, name *C.char, execArgs **C.char, execArgsLen C.size_t,
	icon, schemes *C.char, userData unsafe.Pointer, cb C.sysuri_callback) {
	sink := callbackSink{cb: cb, userData: userData}

	req, err := installRequest(bundle, vendor, name, execArgs, execArgsLen, icon, schemes)
	if err != nil {
		sink.Deliver(ffi.Result{Code: ffi.CodeEncoding, Description: err.Error()})
		return
	}

	b, err := ffi.Default()
	if err != nil {
		sink.Deliver(ffi.Result{Code: ffi.CodeUnexpected, Description: err.Error()})
		return
	}
	b.Install(req, sink)
}

// open_uri asks the OS to open uri with its registered handler.
//
//export open_uri
func open_uri(uri *C.char, userData unsafe.Pointer, cb C.sysuri_callback) { //nolint:revive // C symbol name
	sink := callbackSink{cb: cb, userData: userData}

	if uri == nil {
		sink.Deliver(ffi.Result{Code: ffi.CodeEncoding, Description: "uri is NULL"})
		return
	}

	b, err := ffi.Default()
	if err != nil {
		sink.Deliver(ffi.Result{Code: ffi.CodeUnexpected, Description: err.Error()})
		return
	}
	b.Open(C.GoString(uri), sink)
}

func installRequest(bundle, vendor, name *C.char, execArgs **C.char, execArgsLen C.size_t,
	icon, schemes *C.char) (ffi.InstallRequest, error) {
	var req ffi.InstallRequest

	required := []struct {
		field string
		ptr   *C.char
		dst   *string
	}{
		{"bundle", bundle, &req.BundleID},
		{"vendor", vendor, &req.Vendor},
		{"name", name, &req.Name},
		{"schemes", schemes, &req.Schemes},
	}
	for _, r := range required {
		if r.ptr == nil {
			return req, fmt.Errorf("%s is NULL", r.field)
		}
		*r.dst = C.GoString(r.ptr)
	}
	if icon != nil {
		req.Icon = C.GoString(icon)
	}

	if execArgs == nil || execArgsLen == 0 {
		return req, fmt.Errorf("exec_args is empty")
	}
	for i, arg := range unsafe.Slice(execArgs, int(execArgsLen)) {
		if arg == nil {
			return req, fmt.Errorf("exec_args[%d] is NULL", i)
		}
		req.Args = append(req.Args, C.GoString(arg))
	}
	return req, nil
}
