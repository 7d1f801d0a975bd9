// Copyright (c) 2026 The go-dvdrip contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-dvdrip.
//
// go-dvdrip is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-dvdrip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-dvdrip.  If not, see <https://www.gnu.org/licenses/>.

//go:build unix

package sectorsource

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
#include <stdint.h>

typedef void* (*css_open_fn)(const char*);
typedef int (*css_close_fn)(void*);
typedef int (*css_seek_fn)(void*, uint32_t, int);
typedef int (*css_read_fn)(void*, void*, int, int);
typedef const char* (*css_error_fn)(void*);

static void* css_call_open(css_open_fn fn, const char* device) {
	return fn(device);
}
static int css_call_close(css_close_fn fn, void* handle) {
	return fn(handle);
}
static int css_call_seek(css_seek_fn fn, void* handle, uint32_t sector, int flags) {
	return fn(handle, sector, flags);
}
static int css_call_read(css_read_fn fn, void* handle, void* buf, int sectors, int flags) {
	return fn(handle, buf, sectors, flags);
}
static const char* css_call_error(css_error_fn fn, void* handle) {
	return fn(handle);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// dlopenCSS resolves the five CSS entry points from a dlopen'd shared
// object, mirroring the platform-build-tag split the teacher uses for
// block-device detection (blockdevice_unix.go / blockdevice_windows.go)
// but applied to dynamic symbol loading instead of a stat(2) check.
type dlopenCSS struct {
	handle unsafe.Pointer

	openFn  C.css_open_fn
	closeFn C.css_close_fn
	seekFn  C.css_seek_fn
	readFn  C.css_read_fn
	errorFn C.css_error_fn
}

func loadNativeCSS(path string) (nativeCSS, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	handle := C.dlopen(cPath, C.RTLD_NOW)
	if handle == nil {
		return nil, fmt.Errorf("dlopen %s: %s", path, C.GoString(C.dlerror()))
	}

	lib := &dlopenCSS{handle: handle}
	var err error
	if lib.openFn, err = resolveOpenSym(handle, "open"); err != nil {
		_ = lib.unload()
		return nil, err
	}
	if lib.closeFn, err = resolveCloseSym(handle, "close"); err != nil {
		_ = lib.unload()
		return nil, err
	}
	if lib.seekFn, err = resolveSeekSym(handle, "seek"); err != nil {
		_ = lib.unload()
		return nil, err
	}
	if lib.readFn, err = resolveReadSym(handle, "read"); err != nil {
		_ = lib.unload()
		return nil, err
	}
	if lib.errorFn, err = resolveErrorSym(handle, "error"); err != nil {
		_ = lib.unload()
		return nil, err
	}
	return lib, nil
}

func dlsymOrErr(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	sym := C.dlsym(handle, cName)
	if sym == nil {
		return nil, fmt.Errorf("dlsym %s: %s", name, C.GoString(C.dlerror()))
	}
	return sym, nil
}

func resolveOpenSym(handle unsafe.Pointer, name string) (C.css_open_fn, error) {
	sym, err := dlsymOrErr(handle, name)
	if err != nil {
		return nil, err
	}
	return C.css_open_fn(sym), nil
}

func resolveCloseSym(handle unsafe.Pointer, name string) (C.css_close_fn, error) {
	sym, err := dlsymOrErr(handle, name)
	if err != nil {
		return nil, err
	}
	return C.css_close_fn(sym), nil
}

func resolveSeekSym(handle unsafe.Pointer, name string) (C.css_seek_fn, error) {
	sym, err := dlsymOrErr(handle, name)
	if err != nil {
		return nil, err
	}
	return C.css_seek_fn(sym), nil
}

func resolveReadSym(handle unsafe.Pointer, name string) (C.css_read_fn, error) {
	sym, err := dlsymOrErr(handle, name)
	if err != nil {
		return nil, err
	}
	return C.css_read_fn(sym), nil
}

func resolveErrorSym(handle unsafe.Pointer, name string) (C.css_error_fn, error) {
	sym, err := dlsymOrErr(handle, name)
	if err != nil {
		return nil, err
	}
	return C.css_error_fn(sym), nil
}

func (l *dlopenCSS) open(device string) (uintptr, error) {
	cDevice := C.CString(device)
	defer C.free(unsafe.Pointer(cDevice))
	h := C.css_call_open(l.openFn, cDevice)
	return uintptr(h), nil
}

func (l *dlopenCSS) close(handle uintptr) error {
	rc := C.css_call_close(l.closeFn, unsafe.Pointer(handle)) //nolint:govet // native handle round-trip
	if rc != 0 {
		return fmt.Errorf("native close returned %d", int(rc))
	}
	return nil
}

func (l *dlopenCSS) seek(handle uintptr, sector uint32, flags int32) (int32, error) {
	rc := C.css_call_seek(l.seekFn, unsafe.Pointer(handle), C.uint32_t(sector), C.int(flags)) //nolint:govet
	return int32(rc), nil
}

func (l *dlopenCSS) read(handle uintptr, buf []byte, sectors int32, flags int32) (int32, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	rc := C.css_call_read(l.readFn, unsafe.Pointer(handle), unsafe.Pointer(&buf[0]), C.int(sectors), C.int(flags)) //nolint:govet
	return int32(rc), nil
}

func (l *dlopenCSS) lastError(handle uintptr) string {
	cMsg := C.css_call_error(l.errorFn, unsafe.Pointer(handle)) //nolint:govet
	if cMsg == nil {
		return ""
	}
	return C.GoString(cMsg)
}

func (l *dlopenCSS) unload() error {
	if l.handle == nil {
		return nil
	}
	rc := C.dlclose(l.handle)
	l.handle = nil
	if rc != 0 {
		return fmt.Errorf("dlclose: %s", C.GoString(C.dlerror()))
	}
	return nil
}
