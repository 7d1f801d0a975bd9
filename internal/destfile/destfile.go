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

// Package destfile manages the rip engine's destination-file
// lifecycle: create-and-truncate, exclusive ownership for the
// duration of a rip, and best-effort cleanup on failure (spec §4.5
// steps 3 and 7). It is built on afero so the rip engine is testable
// against an in-memory filesystem.
package destfile

import "github.com/spf13/afero"

// File is the destination file a rip writes to, held exclusively for
// the lifetime of the rip.
type File struct {
	fs   afero.Fs
	path string
	f    afero.File
}

// Create truncates any prior content at path and opens it for
// exclusive writing.
func Create(fs afero.Fs, path string) (*File, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, err
	}
	return &File{fs: fs, path: path, f: f}, nil
}

// Write appends p to the destination.
func (d *File) Write(p []byte) (int, error) {
	return d.f.Write(p)
}

// Flush syncs buffered writes to the underlying filesystem.
func (d *File) Flush() error {
	return d.f.Sync()
}

// Close closes the destination file. Safe to call after Discard.
func (d *File) Close() error {
	return d.f.Close()
}

// Discard closes and removes the destination file, swallowing any
// error from the removal itself per spec §4.5 step 7 ("best-effort;
// swallow errors from the unlink itself").
func (d *File) Discard() {
	_ = d.f.Close()
	_ = d.fs.Remove(d.path)
}

// Path returns the destination's filesystem path.
func (d *File) Path() string {
	return d.path
}
