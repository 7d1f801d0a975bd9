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
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ArchiveError wraps any failure during the archive staging step with
// the archive path that caused it.
type ArchiveError struct {
	Path   string
	Reason string
}

func (e ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %s", e.Path, e.Reason)
}

// Stage extracts the VIDEO_TS tree found inside the archive at
// archivePath into scratchDir on fs, returning the path (on fs) to the
// extracted VIDEO_TS directory. The caller owns scratchDir and is
// responsible for removing it once the rip finishes.
func Stage(fs afero.Fs, archivePath, scratchDir string) (string, error) {
	arc, err := Open(archivePath)
	if err != nil {
		return "", ArchiveError{Path: archivePath, Reason: err.Error()}
	}
	defer func() { _ = arc.Close() }()

	videoTSDir, err := DetectVideoTS(arc)
	if err != nil {
		return "", ArchiveError{Path: archivePath, Reason: err.Error()}
	}

	files, err := arc.List()
	if err != nil {
		return "", ArchiveError{Path: archivePath, Reason: err.Error()}
	}

	// path.Dir returns "." when the marker file sits at the archive
	// root with no wrapper directory; every entry is then "under" it,
	// so the prefix filter must be empty rather than "./".
	prefix := ""
	if videoTSDir != "." {
		prefix = videoTSDir + "/"
	}
	extracted := false
	for _, file := range files {
		if !strings.HasPrefix(strings.ToLower(file.Name), strings.ToLower(prefix)) {
			continue
		}
		rel := file.Name[len(prefix):]
		if rel == "" {
			continue
		}

		destPath := path.Join(scratchDir, rel)
		if err := fs.MkdirAll(path.Dir(destPath), 0o755); err != nil {
			return "", ArchiveError{Path: archivePath, Reason: fmt.Sprintf("create scratch dir: %v", err)}
		}

		if err := extractOne(fs, arc, file.Name, destPath); err != nil {
			return "", ArchiveError{Path: archivePath, Reason: err.Error()}
		}
		extracted = true
	}

	if !extracted {
		return "", ArchiveError{Path: archivePath, Reason: "VIDEO_TS tree detected but no files extracted"}
	}

	return path.Join(scratchDir), nil
}

func extractOne(fs afero.Fs, arc Archive, internalPath, destPath string) error {
	reader, _, err := arc.Open(internalPath)
	if err != nil {
		return fmt.Errorf("open %s in archive: %w", internalPath, err)
	}
	defer func() { _ = reader.Close() }()

	dest, err := fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, reader); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}
