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

package sectorsource

import (
	"context"
	"fmt"
)

// CSS flag constants, per the native library's C calling convention.
const (
	flagNoFlags     = 0
	flagReadDecrypt = 1
	flagSeekMPEG    = 1
	flagSeekKey     = 2
)

// nativeCSS is the thin surface a platform's dynamic loader exposes
// over the five CSS entry points: open, close, seek, read, error. Each
// platform file (csshandle_unix.go, csshandle_windows.go) provides
// loadNativeCSS, which resolves these symbols from the library named
// by libraryPath.
type nativeCSS interface {
	open(device string) (uintptr, error)
	close(handle uintptr) error
	seek(handle uintptr, sector uint32, flags int32) (int32, error)
	read(handle uintptr, buf []byte, sectors int32, flags int32) (int32, error)
	lastError(handle uintptr) string
	unload() error
}

// CSSHandle is the CSS-handle sector source variant: a raw device
// opened through a dynamically loaded native CSS library, with
// per-cell key negotiation. It satisfies Source.
type CSSHandle struct {
	libraryPath string
	devicePath  string

	lib    nativeCSS
	handle uintptr
	cursor uint32
}

// NewCSSHandle constructs a CSS-handle source bound to libraryPath (the
// native library to dlopen/LoadLibrary) and devicePath (the raw device
// to open once the library is loaded).
func NewCSSHandle(libraryPath, devicePath string) *CSSHandle {
	return &CSSHandle{libraryPath: libraryPath, devicePath: devicePath}
}

func (h *CSSHandle) SupportsDecryption() bool { return true }

// Open loads the native library and opens devicePath through it. Per
// §9, symbol resolution happens entirely within Open, not lazily on
// first use.
func (h *CSSHandle) Open(ctx context.Context) error {
	if h.lib != nil {
		return nil
	}

	lib, err := loadNativeCSS(h.libraryPath)
	if err != nil {
		return DecryptionUnavailable{
			Artifact: "CSS native library",
			Path:     h.libraryPath,
			Reason:   err.Error(),
		}
	}

	handle, err := lib.open(h.devicePath)
	if err != nil || handle == 0 {
		_ = lib.unload()
		reason := "open returned null handle"
		if err != nil {
			reason = err.Error()
		}
		return DecryptionUnavailable{
			Artifact: "CSS native library",
			Path:     h.libraryPath,
			Reason:   reason,
		}
	}

	h.lib = lib
	h.handle = handle
	return nil
}

// Seek positions the cursor and, when requestKey is set, issues a
// key-request seek so the library negotiates the CSS title key for the
// cell starting at sector before the next Read.
func (h *CSSHandle) Seek(sector uint32, requestKey bool) error {
	if h.lib == nil {
		return OpenError{Reason: "Seek called before Open"}
	}

	flags := int32(flagSeekMPEG)
	if requestKey {
		flags = flagSeekKey
	}

	result, err := h.lib.seek(h.handle, sector, flags)
	if err != nil || result < 0 {
		reason := h.lib.lastError(h.handle)
		if reason == "" && err != nil {
			reason = err.Error()
		}
		return SeekError{Sector: sector, Reason: reason}
	}
	h.cursor = sector
	return nil
}

// Read fills buf with up to sectorCount*SectorSize bytes from the
// current cursor, descrambled if decrypt is set and a key was
// previously requested for the covering cell.
func (h *CSSHandle) Read(buf []byte, sectorCount int, decrypt bool) (int, error) {
	if h.lib == nil {
		return 0, OpenError{Reason: "Read called before Open"}
	}
	need := sectorCount * SectorSize
	if len(buf) < need {
		return 0, fmt.Errorf("buffer too small: have %d bytes, need %d", len(buf), need)
	}

	flags := int32(flagNoFlags)
	if decrypt {
		flags = flagReadDecrypt
	}

	n, err := h.lib.read(h.handle, buf[:need], int32(sectorCount), flags)
	if err != nil || n < 0 {
		reason := h.lib.lastError(h.handle)
		if reason == "" && err != nil {
			reason = err.Error()
		}
		return 0, SectorReadError{Sector: h.cursor, Reason: reason}
	}
	h.cursor += uint32(n)
	return int(n), nil
}

// Close releases the device handle and unloads the native library.
func (h *CSSHandle) Close() error {
	if h.lib == nil {
		return nil
	}
	closeErr := h.lib.close(h.handle)
	unloadErr := h.lib.unload()
	h.lib = nil
	h.handle = 0
	if closeErr != nil {
		return closeErr
	}
	return unloadErr
}
