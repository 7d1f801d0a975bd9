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

//go:build windows

package sectorsource

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// win32CSS resolves the five CSS entry points from a LoadLibraryEx'd
// DLL, the Windows counterpart of csshandle_unix.go's dlopen/dlsym
// pair, matching the teacher's own platform-build-tag split between
// blockdevice_unix.go and blockdevice_windows.go.
type win32CSS struct {
	module windows.Handle

	openProc  uintptr
	closeProc uintptr
	seekProc  uintptr
	readProc  uintptr
	errorProc uintptr
}

func loadNativeCSS(path string) (nativeCSS, error) {
	module, err := windows.LoadLibraryEx(path, 0, windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return nil, fmt.Errorf("LoadLibraryEx %s: %w", path, err)
	}

	lib := &win32CSS{module: module}
	for name, dst := range map[string]*uintptr{
		"open":  &lib.openProc,
		"close": &lib.closeProc,
		"seek":  &lib.seekProc,
		"read":  &lib.readProc,
		"error": &lib.errorProc,
	} {
		addr, err := windows.GetProcAddress(module, name)
		if err != nil {
			_ = windows.FreeLibrary(module)
			return nil, fmt.Errorf("GetProcAddress %s: %w", name, err)
		}
		*dst = addr
	}
	return lib, nil
}

func (l *win32CSS) open(device string) (uintptr, error) {
	devicePtr, err := windows.BytePtrFromString(device)
	if err != nil {
		return 0, err
	}
	ret, _, _ := syscallN(l.openProc, uintptr(unsafe.Pointer(devicePtr)))
	return ret, nil
}

func (l *win32CSS) close(handle uintptr) error {
	ret, _, _ := syscallN(l.closeProc, handle)
	if int32(ret) != 0 {
		return fmt.Errorf("native close returned %d", int32(ret))
	}
	return nil
}

func (l *win32CSS) seek(handle uintptr, sector uint32, flags int32) (int32, error) {
	ret, _, _ := syscallN(l.seekProc, handle, uintptr(sector), uintptr(flags))
	return int32(ret), nil
}

func (l *win32CSS) read(handle uintptr, buf []byte, sectors int32, flags int32) (int32, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	ret, _, _ := syscallN(l.readProc, handle, uintptr(unsafe.Pointer(&buf[0])), uintptr(sectors), uintptr(flags))
	return int32(ret), nil
}

func (l *win32CSS) lastError(handle uintptr) string {
	ret, _, _ := syscallN(l.errorProc, handle)
	if ret == 0 {
		return ""
	}
	return windows.BytePtrToString((*byte)(unsafe.Pointer(ret)))
}

func (l *win32CSS) unload() error {
	if l.module == 0 {
		return nil
	}
	err := windows.FreeLibrary(l.module)
	l.module = 0
	return err
}

// syscallN is a thin wrapper so call sites read like the POSIX cdecl
// call shape the native CSS library's C ABI actually uses.
func syscallN(proc uintptr, args ...uintptr) (uintptr, uintptr, error) {
	return windows.SyscallN(proc, args...)
}
