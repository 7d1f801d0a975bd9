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

package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// FileInfo contains information about a file in an archive.
type FileInfo struct {
	Name string // Full path within archive
	Size int64  // Uncompressed size
}

// Archive provides read access to files within an archive.
type Archive interface {
	// List returns all files in the archive.
	List() ([]FileInfo, error)

	// Open opens a file within the archive for reading.
	// Returns the reader, uncompressed size, and any error.
	Open(internalPath string) (io.ReadCloser, int64, error)

	// Close closes the archive.
	Close() error
}

// Open opens an archive file based on its extension.
// Supported formats: .zip, .7z, .rar
func Open(path string) (Archive, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".zip":
		return OpenZIP(path)
	case ".7z":
		return OpenSevenZip(path)
	case ".rar":
		return OpenRAR(path)
	default:
		return nil, FormatError{Format: ext}
	}
}

// IsArchiveExtension checks if an extension is a supported archive format.
func IsArchiveExtension(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".zip", ".7z", ".rar":
		return true
	default:
		return false
	}
}

// matchesInternalPath reports whether an archive entry's stored name
// refers to internalPath, case-insensitively and independent of path
// separator style. Every Archive implementation's Open uses this so
// the three readers agree on exactly the same lookup rule DetectVideoTS
// and Stage rely on.
func matchesInternalPath(entryName, internalPath string) bool {
	return strings.EqualFold(filepath.ToSlash(entryName), filepath.ToSlash(internalPath))
}
