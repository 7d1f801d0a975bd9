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
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const maxOpenVOBHandles = 4

// vobSegment is one VOB file's position in the contiguous sector
// address space built by concatenating a VTS's play VOBs in lexical
// order.
type vobSegment struct {
	path        string
	firstSector uint32
	lastSector  uint32
}

// FileSource is the file-backed sector source variant: it addresses
// sectors across an ordered set of VTS_nn_m.VOB files as though they
// were one contiguous stream, the same equivalence an unencrypted disc
// read through the filesystem exhibits (§4.4.2). It satisfies Source.
type FileSource struct {
	videoTsPath string
	vtsNumber   int

	segments []vobSegment
	cursor   uint32

	handles *lru.Cache[string, *os.File]
}

// NewFileSource constructs a file-backed source over the VTS_nn_m.VOB
// files for vtsNumber found under videoTsPath.
func NewFileSource(videoTsPath string, vtsNumber int) *FileSource {
	return &FileSource{videoTsPath: videoTsPath, vtsNumber: vtsNumber}
}

func (f *FileSource) SupportsDecryption() bool { return false }

// Open enumerates the play VOBs (VTS_nn_1.VOB .. VTS_nn_9.VOB, lexical
// order, excluding the menu VOB VTS_nn_0.VOB) and builds the
// contiguous sector-range table.
func (f *FileSource) Open(ctx context.Context) error {
	if f.handles != nil {
		return nil
	}

	entries, err := os.ReadDir(f.videoTsPath)
	if err != nil {
		return OpenError{Reason: fmt.Sprintf("read dir %s: %v", f.videoTsPath, err)}
	}

	prefix := fmt.Sprintf("VTS_%02d_", f.vtsNumber)
	var names []string
	for _, e := range entries {
		name := e.Name()
		upper := strings.ToUpper(name)
		if !strings.HasPrefix(upper, prefix) || !strings.HasSuffix(upper, ".VOB") {
			continue
		}
		if strings.HasPrefix(upper, prefix+"0.VOB") {
			continue // menu VOB, excluded
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	})

	if len(names) == 0 {
		return OpenError{Reason: fmt.Sprintf("no play VOBs found for VTS %02d in %s", f.vtsNumber, f.videoTsPath)}
	}

	var sector uint32
	segments := make([]vobSegment, 0, len(names))
	for _, name := range names {
		path := filepath.Join(f.videoTsPath, name)
		info, err := os.Stat(path)
		if err != nil {
			return OpenError{Reason: fmt.Sprintf("stat %s: %v", path, err)}
		}
		sectorCount := uint32(info.Size() / SectorSize) //nolint:gosec // VOB sizes are always sector-aligned
		if sectorCount == 0 {
			continue
		}
		segments = append(segments, vobSegment{
			path:        path,
			firstSector: sector,
			lastSector:  sector + sectorCount - 1,
		})
		sector += sectorCount
	}
	f.segments = segments

	handles, err := lru.NewWithEvict[string, *os.File](maxOpenVOBHandles, func(_ string, file *os.File) {
		_ = file.Close()
	})
	if err != nil {
		return OpenError{Reason: err.Error()}
	}
	f.handles = handles
	return nil
}

// Seek records the target sector. request_key is ignored: this variant
// carries no CSS key concept.
func (f *FileSource) Seek(sector uint32, _ bool) error {
	f.cursor = sector
	return nil
}

// Read translates the current cursor into (file, offset) pairs,
// reading across VOB boundaries as needed. decrypt=true is rejected as
// a CapabilityViolation.
func (f *FileSource) Read(buf []byte, sectorCount int, decrypt bool) (int, error) {
	if decrypt {
		return 0, CapabilityViolation{Reason: "file-backed source cannot decrypt"}
	}
	if f.handles == nil {
		return 0, OpenError{Reason: "Read called before Open"}
	}

	need := sectorCount * SectorSize
	if len(buf) < need {
		return 0, fmt.Errorf("buffer too small: have %d bytes, need %d", len(buf), need)
	}

	sectorsRead := 0
	written := 0
	remaining := sectorCount

	for remaining > 0 {
		seg := f.segmentFor(f.cursor)
		if seg == nil {
			break // end of addressable stream
		}

		file, err := f.handleFor(seg.path)
		if err != nil {
			return sectorsRead, SectorReadError{Sector: f.cursor, Reason: err.Error()}
		}

		availableInSeg := int(seg.lastSector-f.cursor) + 1
		batch := remaining
		if batch > availableInSeg {
			batch = availableInSeg
		}

		offset := int64(f.cursor-seg.firstSector) * SectorSize
		n, err := file.ReadAt(buf[written:written+batch*SectorSize], offset)
		if err != nil {
			return sectorsRead, SectorReadError{Sector: f.cursor, Reason: err.Error()}
		}
		if n%SectorSize != 0 {
			return sectorsRead, SectorReadError{Sector: f.cursor, Reason: "short read not sector-aligned"}
		}

		sectorsInBatch := n / SectorSize
		sectorsRead += sectorsInBatch
		written += n
		f.cursor += uint32(sectorsInBatch)
		remaining -= sectorsInBatch

		if sectorsInBatch < batch {
			break // short read; let the caller decide whether to retry
		}
	}

	return sectorsRead, nil
}

func (f *FileSource) segmentFor(sector uint32) *vobSegment {
	for i := range f.segments {
		if sector >= f.segments[i].firstSector && sector <= f.segments[i].lastSector {
			return &f.segments[i]
		}
	}
	return nil
}

func (f *FileSource) handleFor(path string) (*os.File, error) {
	if file, ok := f.handles.Get(path); ok {
		return file, nil
	}
	file, err := os.Open(path) //nolint:gosec // path built from enumerated VIDEO_TS directory entries
	if err != nil {
		return nil, err
	}
	f.handles.Add(path, file)
	return file, nil
}

// Close releases every cached VOB file handle.
func (f *FileSource) Close() error {
	if f.handles == nil {
		return nil
	}
	f.handles.Purge()
	f.handles = nil
	return nil
}
