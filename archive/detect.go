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
	"path"
	"strings"
)

// videoTSMarker is the file whose presence identifies a VIDEO_TS tree
// inside an archive.
const videoTSMarker = "VIDEO_TS.IFO"

// DetectVideoTS scans an archive's file list for a VIDEO_TS.IFO entry
// and returns the archive-internal directory that contains it (so the
// caller can extract that whole subtree). The search is
// case-insensitive, matching the filesystem behavior spec'd for a
// VIDEO_TS directory on disk.
func DetectVideoTS(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", FileListError{Reason: err.Error()}
	}

	for _, file := range files {
		if strings.EqualFold(path.Base(file.Name), videoTSMarker) {
			return path.Dir(path.Clean(file.Name)), nil
		}
	}

	return "", NoVideoTSError{}
}
