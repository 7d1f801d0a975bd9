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

package ifo

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/text/language"

	bin "github.com/openripper/go-dvdrip/internal/binary"
)

const (
	vtsMagic = "DVDVIDEO-VTS"

	audioCountOff  = 0x200
	audioTableOff  = 0x202
	maxAudioStream = 8

	subCountOff  = 0x254
	subTableOff  = 0x256
	maxSubStream = 32

	pgciPointerOff = 0xCC
	cADTPointerOff = 0xE0

	pgcProgramCountOff = 0x02
	pgcCellCountOff    = 0x03
	pgcProgramMapOff   = 0xE6
	pgcCellPlaybackOff = 0xE8

	cellPlaybackEntryLen = 24
	cellPlaybackDurOff   = 0x04
	cellPlaybackFirstOff = 0x08
	cellPlaybackLastOff  = 0x14

	cADTEntryLen = 12
)

// parseVTSTitle decodes a VTS_nn_0.IFO image and joins it with entry to
// produce the fully resolved Title: streams, PGC-derived chapters, and
// cell references bound to C_ADT sector ranges.
func parseVTSTitle(data []byte, entry TitleEntry, logger *log.Logger) (*Title, error) {
	file := vtsFileName(entry.VTSNumber)

	if len(data) < 12 || !bin.BytesEqual(data[:12], []byte(vtsMagic)) {
		return nil, CorruptIfoError{File: file, Reason: "bad magic"}
	}

	audioStreams, err := parseAudioStreams(data, file)
	if err != nil {
		return nil, err
	}
	subStreams, err := parseSubtitleStreams(data, file)
	if err != nil {
		return nil, err
	}

	cells, err := parseCADT(data, file)
	if err != nil {
		return nil, err
	}

	pgcBase, err := resolvePGC(data, entry, file)
	if err != nil {
		return nil, err
	}

	cellRefs, chapters, duration, err := buildChaptersAndCells(data, pgcBase, cells, file, logger)
	if err != nil {
		return nil, err
	}

	return &Title{
		Entry:           entry,
		Duration:        duration,
		Chapters:        chapters,
		AudioStreams:    audioStreams,
		SubtitleStreams: subStreams,
		Cells:           cellRefs,
	}, nil
}

func vtsFileName(vtsNumber int) string {
	return fmt.Sprintf("VTS_%02d_0.IFO", vtsNumber)
}

func parseAudioStreams(data []byte, file string) ([]AudioStream, error) {
	count, err := bin.U16BE(data, audioCountOff)
	if err != nil {
		return nil, CorruptIfoError{File: file, Reason: "truncated audio stream count"}
	}
	if count > maxAudioStream {
		count = maxAudioStream
	}

	streams := make([]AudioStream, 0, count)
	for i := range int(count) {
		off := audioTableOff + 8*i

		fields, err := bin.ReadBitFields(data, off, 1, []bin.BitField{
			{Name: "coding", Bits: 3},
			{Name: "rest", Bits: 5},
		})
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated audio attribute"}
		}
		byte1, err := bin.U8(data, off+1)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated audio attribute"}
		}

		lang, err := audioLanguage(data, off+2)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated audio language"}
		}

		sampleRate := 48000
		if (byte1>>4)&0x3 != 0 {
			sampleRate = 96000
		}

		streams = append(streams, AudioStream{
			Index:      i,
			Language:   lang,
			Format:     audioFormatFromCode(fields["coding"]),
			Channels:   int(byte1&0x7) + 1,
			SampleRate: sampleRate,
		})
	}
	return streams, nil
}

func audioFormatFromCode(code uint64) AudioFormat {
	switch code {
	case 0:
		return AudioFormatAC3
	case 2:
		return AudioFormatMPEG1
	case 3:
		return AudioFormatMPEG2
	case 4:
		return AudioFormatLPCM
	case 6:
		return AudioFormatDTS
	default:
		return AudioFormatUnknown
	}
}

// audioLanguage reads the 2-byte ISO-639 code at off, falling back to
// "und" when either byte is zero or the tag doesn't parse.
func audioLanguage(data []byte, off int) (string, error) {
	a, err := bin.U8(data, off)
	if err != nil {
		return "", err
	}
	b, err := bin.U8(data, off+1)
	if err != nil {
		return "", err
	}
	if a == 0 || b == 0 {
		return "und", nil
	}
	tag, err := language.Parse(string([]byte{a, b}))
	if err != nil || tag == language.Und {
		return "und", nil
	}
	return tag.String(), nil
}

func parseSubtitleStreams(data []byte, file string) ([]SubtitleStream, error) {
	count, err := bin.U16BE(data, subCountOff)
	if err != nil {
		return nil, CorruptIfoError{File: file, Reason: "truncated subtitle stream count"}
	}
	if count > maxSubStream {
		count = maxSubStream
	}

	streams := make([]SubtitleStream, 0, count)
	for i := range int(count) {
		off := subTableOff + 6*i
		lang, err := audioLanguage(data, off+2)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated subtitle language"}
		}
		streams = append(streams, SubtitleStream{Index: i, Language: lang})
	}
	return streams, nil
}

// cADTEntry is one row of the Cell Address Table: the sector range
// owning a given (vob_id, cell_id, angle).
type cADTEntry struct {
	VOBID       uint16
	CellID      uint8
	Angle       uint8
	StartSector uint32
	LastSector  uint32
}

func parseCADT(data []byte, file string) ([]cADTEntry, error) {
	sector, err := bin.U32BE(data, cADTPointerOff)
	if err != nil {
		return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT pointer"}
	}
	base := bin.SectorToByteOffset(sector)

	lastByte, err := bin.U32BE(data, base+4)
	if err != nil {
		return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT header"}
	}
	if lastByte+1 < 8 {
		return nil, CorruptIfoError{File: file, Reason: "impossible C_ADT size"}
	}
	entryCount := (int(lastByte) + 1 - 8) / cADTEntryLen

	entries := make([]cADTEntry, 0, entryCount)
	for i := range entryCount {
		off := base + 8 + cADTEntryLen*i

		vobID, err := bin.U16BE(data, off)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT entry"}
		}
		cellID, err := bin.U8(data, off+2)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT entry"}
		}
		angle, err := bin.U8(data, off+3)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT entry"}
		}
		start, err := bin.U32BE(data, off+4)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT entry"}
		}
		last, err := bin.U32BE(data, off+8)
		if err != nil {
			return nil, CorruptIfoError{File: file, Reason: "truncated C_ADT entry"}
		}

		entries = append(entries, cADTEntry{
			VOBID:       vobID,
			CellID:      cellID,
			Angle:       angle,
			StartSector: start,
			LastSector:  last,
		})
	}
	return entries, nil
}

// resolvePGC locates the byte offset of the PGC block to use for
// entry.TitleInVTS, per §4.2.2.
func resolvePGC(data []byte, entry TitleEntry, file string) (int, error) {
	sector, err := bin.U32BE(data, pgciPointerOff)
	if err != nil {
		return 0, CorruptIfoError{File: file, Reason: "truncated VTS_PGCI pointer"}
	}
	pgciBase := bin.SectorToByteOffset(sector)

	pgcCount, err := bin.U16BE(data, pgciBase)
	if err != nil {
		return 0, CorruptIfoError{File: file, Reason: "truncated VTS_PGCI header"}
	}
	if pgcCount == 0 {
		return 0, CorruptIfoError{File: file, Reason: "no program chains"}
	}

	index := entry.TitleInVTS
	if index < 1 {
		index = 1
	}
	if index > int(pgcCount) {
		index = int(pgcCount)
	}
	index--

	searchOff := pgciBase + 8 + 8*index
	relOffset, err := bin.U32BE(data, searchOff+4)
	if err != nil {
		return 0, CorruptIfoError{File: file, Reason: "truncated PGC search entry"}
	}

	return pgciBase + int(relOffset), nil
}

func buildChaptersAndCells(
	data []byte,
	pgcBase int,
	cadt []cADTEntry,
	file string,
	logger *log.Logger,
) ([]CellRef, []Chapter, time.Duration, error) {
	programCount, err := bin.U8(data, pgcBase+pgcProgramCountOff)
	if err != nil {
		return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated PGC header"}
	}
	cellCount, err := bin.U8(data, pgcBase+pgcCellCountOff)
	if err != nil {
		return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated PGC header"}
	}

	programMapRel, err := bin.U16BE(data, pgcBase+pgcProgramMapOff)
	if err != nil {
		return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated program map pointer"}
	}
	cellPlaybackRel, err := bin.U16BE(data, pgcBase+pgcCellPlaybackOff)
	if err != nil {
		return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated cell playback pointer"}
	}

	programMapOff := pgcBase + int(programMapRel)
	cellPlaybackOff := pgcBase + int(cellPlaybackRel)

	cellRefs := make([]CellRef, 0, cellCount)
	for i := range int(cellCount) {
		off := cellPlaybackOff + cellPlaybackEntryLen*i

		dur, err := bin.BCDDuration(data, off+cellPlaybackDurOff)
		if err != nil {
			return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated cell playback entry"}
		}
		first, err := bin.U32BE(data, off+cellPlaybackFirstOff)
		if err != nil {
			return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated cell playback entry"}
		}
		last, err := bin.U32BE(data, off+cellPlaybackLastOff)
		if err != nil {
			return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated cell playback entry"}
		}

		ref := joinCell(first, last, cadt, logger)
		ref.Duration = time.Duration(dur) * time.Millisecond
		cellRefs = append(cellRefs, ref)
	}

	programMap := make([]int, 0, programCount)
	for i := range int(programCount) {
		b, err := bin.U8(data, programMapOff+i)
		if err != nil {
			return nil, nil, 0, CorruptIfoError{File: file, Reason: "truncated program map"}
		}
		programMap = append(programMap, int(b))
	}

	chapters, totalDuration := buildChapters(programMap, cellRefs)
	return cellRefs, chapters, totalDuration, nil
}

// joinCell resolves a PGC cell-playback sector range to a CellRef via
// the C_ADT, per §4.2.3: exact match, then containing-range fallback,
// then a synthesized ref with vob_id=1, angle=0.
func joinCell(first, last uint32, cadt []cADTEntry, logger *log.Logger) CellRef {
	for _, e := range cadt {
		if e.StartSector == first && e.LastSector == last {
			return CellRef{
				VOBID:       e.VOBID,
				CellID:      e.CellID,
				Angle:       e.Angle,
				StartSector: first,
				LastSector:  last,
			}
		}
	}
	for _, e := range cadt {
		if e.StartSector <= first && e.LastSector >= last {
			return CellRef{
				VOBID:       e.VOBID,
				CellID:      e.CellID,
				Angle:       e.Angle,
				StartSector: first,
				LastSector:  last,
			}
		}
	}
	if logger != nil {
		logger.Printf("dvdrip: no C_ADT entry covers sectors [%d,%d]; synthesizing cell reference", first, last)
	}
	return CellRef{
		VOBID:       1,
		CellID:      0,
		Angle:       0,
		StartSector: first,
		LastSector:  last,
	}
}

// buildChapters walks the PGC program map, turning it into a
// contiguous Chapter partition of the cell list, per §4.2.3.
func buildChapters(programMap []int, cells []CellRef) ([]Chapter, time.Duration) {
	chapters := make([]Chapter, 0, len(programMap))
	var runningOffset time.Duration
	var total time.Duration

	for k := range programMap {
		first := programMap[k]
		last := len(cells)
		if k+1 < len(programMap) {
			last = programMap[k+1] - 1
		}

		var chapterDur time.Duration
		for c := first; c <= last && c >= 1 && c <= len(cells); c++ {
			chapterDur += cells[c-1].Duration
		}

		chapters = append(chapters, Chapter{
			ChapterNumber:      k + 1,
			FirstCell:          first,
			LastCell:           last,
			Duration:           chapterDur,
			StartOffsetInTitle: runningOffset,
		})
		runningOffset += chapterDur
		total += chapterDur
	}
	return chapters, total
}
