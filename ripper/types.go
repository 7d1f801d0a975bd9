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

// Package ripper is the rip engine: it turns a RipRequest into a
// resolved sector playlist and streams it to a destination file,
// reporting progress and honouring cooperative cancellation.
package ripper

import "github.com/openripper/go-dvdrip/resolver"

// ReadBatch is the number of 2048-byte sectors copied per read/write
// cycle (128 KiB). It is a tradeoff between syscall overhead and
// progress granularity and is intentionally not configurable.
const ReadBatch = 64

// RipRequest is the entire configuration surface of a rip: no
// environment variables or config files are consulted.
type RipRequest struct {
	// VideoTsPath names a VIDEO_TS directory. Rip does not unpack
	// archives: an archive (.zip/.7z/.rar) is staged to a directory
	// with archive.Stage first, and that directory is passed here.
	VideoTsPath string

	// RawDevicePath is the device the CSS-handle source opens
	// (e.g. "/dev/sr0" or `\\.\D:`). Required when Decrypt is true.
	RawDevicePath string

	// CSSLibraryPath names the native CSS library to dynamically load
	// when Decrypt is true.
	CSSLibraryPath string

	TitleNumber  int
	ChapterRange resolver.ChapterRange
	Decrypt      bool
	Destination  string

	// ManifestPath, if non-empty, is where a RipManifest sidecar is
	// written after a successful rip.
	ManifestPath string
}

// Progress reports cumulative bytes written against the a-priori
// total. Consecutive values never regress; the final event of a
// successful rip has BytesWritten == BytesTotal.
type Progress struct {
	BytesWritten int64
	BytesTotal   int64
}

// ProgressFunc receives Progress updates after each completed batch.
// It may be nil.
type ProgressFunc func(Progress)
