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

package ripper

import (
	"encoding/gob"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/openripper/go-dvdrip/ifo"
	"github.com/openripper/go-dvdrip/resolver"
)

// RipManifest is a serializable snapshot written next to the
// destination file on success, so a downstream transcoder can recover
// stream metadata without re-parsing IFOs. Writing it is optional and
// its absence never affects the rip itself.
type RipManifest struct {
	TitleNumber     int
	ChapterRange    resolver.ChapterRange
	Playlist        []resolver.SectorRange
	AudioStreams    []ifo.AudioStream
	SubtitleStreams []ifo.SubtitleStream
	BytesWritten    int64
}

// saveManifest writes m to path on fs as a gob-encoded, gzip-compressed
// stream, mirroring the teacher's own database.go on-disk format.
func saveManifest(fs afero.Fs, path string, m RipManifest) error {
	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	gz := gzip.NewWriter(file)
	defer func() { _ = gz.Close() }()

	enc := gob.NewEncoder(gz)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a RipManifest previously written by a successful
// rip. It is provided for symmetry with saveManifest; the core itself
// never reads manifests back.
func LoadManifest(fs afero.Fs, path string) (RipManifest, error) {
	file, err := fs.Open(path)
	if err != nil {
		return RipManifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return RipManifest{}, fmt.Errorf("gzip reader: %w", err)
	}
	defer func() { _ = gz.Close() }()

	var m RipManifest
	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&m); err != nil {
		return RipManifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}
