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

import "encoding/binary"

// cellSpec describes one cell-playback entry to bake into a synthetic
// VTS IFO image, plus the C_ADT entry that should join it (when
// wantADT is true; otherwise no C_ADT entry is emitted for this cell,
// exercising the synthesize-fallback path).
type cellSpec struct {
	first, last uint32
	wantADT     bool
}

// buildVideoTSIFO constructs a minimal VIDEO_TS.IFO image with one
// TT_SRPT entry per title.
func buildVideoTSIFO(titles []TitleEntry) []byte {
	const ttSRPTSector = 1
	buf := make([]byte, (ttSRPTSector+1)*2048)
	copy(buf[0:12], vmgMagic)
	binary.BigEndian.PutUint32(buf[ttSRPTPointerOff:], ttSRPTSector)

	base := ttSRPTSector * 2048
	binary.BigEndian.PutUint16(buf[base:], uint16(len(titles)))

	for i, t := range titles {
		off := base + 8 + 12*i
		buf[off+1] = byte(t.AngleCount)
		binary.BigEndian.PutUint16(buf[off+2:], uint16(t.ChapterCount))
		buf[off+6] = byte(t.VTSNumber)
		buf[off+7] = byte(t.TitleInVTS)
		binary.BigEndian.PutUint32(buf[off+8:], t.VTSEntrySector)
	}
	return buf
}

// buildVTSIFO constructs a minimal VTS_nn_0.IFO image: one PGC with a
// program map built from chapterStarts (1-based first cell per
// chapter) and one cell-playback/C_ADT entry per cellSpec.
func buildVTSIFO(chapterStarts []int, cells []cellSpec) []byte {
	const pgcRelOff = 16 // relative offset of the PGC block within the PGCI sector
	return buildVTSIFOAtOffset(chapterStarts, cells, pgcRelOff)
}

// buildVTSIFOAtOffset is buildVTSIFO with an explicit PGC relative
// offset, so tests can place the PGC block beyond the 16-bit range a
// truncating reader would wrap.
func buildVTSIFOAtOffset(chapterStarts []int, cells []cellSpec, pgcRelOff uint32) []byte {
	const pgciSector = 2

	pgciBase := pgciSector * 2048
	pgcBase := pgciBase + int(pgcRelOff)

	programMapOff := 0x100
	cellPlaybackOff := 0x140
	pgcContentEnd := pgcBase + cellPlaybackOff + cellPlaybackEntryLen*len(cells)

	// Place the C_ADT in its own sector, past every byte the PGC
	// content touches, regardless of how far pgcRelOff pushed pgcBase.
	cadtSector := pgcContentEnd/2048 + 2
	cadtBase := cadtSector * 2048

	buf := make([]byte, cadtBase+2048)
	copy(buf[0:12], vtsMagic)

	binary.BigEndian.PutUint16(buf[audioCountOff:], 0)
	binary.BigEndian.PutUint16(buf[subCountOff:], 0)
	binary.BigEndian.PutUint32(buf[pgciPointerOff:], pgciSector)
	binary.BigEndian.PutUint32(buf[cADTPointerOff:], uint32(cadtSector)) //nolint:gosec // test fixture, small values

	binary.BigEndian.PutUint16(buf[pgciBase:], 1) // one PGC
	binary.BigEndian.PutUint32(buf[pgciBase+8+4:], pgcRelOff)

	buf[pgcBase+pgcProgramCountOff] = byte(len(chapterStarts))
	buf[pgcBase+pgcCellCountOff] = byte(len(cells))

	binary.BigEndian.PutUint16(buf[pgcBase+pgcProgramMapOff:], uint16(programMapOff))
	binary.BigEndian.PutUint16(buf[pgcBase+pgcCellPlaybackOff:], uint16(cellPlaybackOff))

	for i, start := range chapterStarts {
		buf[pgcBase+programMapOff+i] = byte(start)
	}

	for i, c := range cells {
		off := pgcBase + cellPlaybackOff + cellPlaybackEntryLen*i
		// 1 minute, NTSC rate flag (0b11 in top bits of the FF byte).
		buf[off+cellPlaybackDurOff+0] = 0x00
		buf[off+cellPlaybackDurOff+1] = 0x01
		buf[off+cellPlaybackDurOff+2] = 0x00
		buf[off+cellPlaybackDurOff+3] = 0xC0
		binary.BigEndian.PutUint32(buf[off+cellPlaybackFirstOff:], c.first)
		binary.BigEndian.PutUint32(buf[off+cellPlaybackLastOff:], c.last)
	}

	var adtEntries []cellSpec
	for _, c := range cells {
		if c.wantADT {
			adtEntries = append(adtEntries, c)
		}
	}
	lastByte := 8 + cADTEntryLen*len(adtEntries) - 1
	binary.BigEndian.PutUint32(buf[cadtBase+4:], uint32(lastByte)) //nolint:gosec // test fixture, small values
	for i, c := range adtEntries {
		off := cadtBase + 8 + cADTEntryLen*i
		binary.BigEndian.PutUint16(buf[off:], 1) // vob_id
		buf[off+2] = 1 // cell_id
		buf[off+3] = 0 // angle
		binary.BigEndian.PutUint32(buf[off+4:], c.first)
		binary.BigEndian.PutUint32(buf[off+8:], c.last)
	}

	return buf
}
