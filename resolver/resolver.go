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

// Package resolver joins a parsed Title's cell list with an optional
// chapter range into an ordered playlist of sector ranges ready for
// the rip engine.
package resolver

import (
	"fmt"

	"github.com/openripper/go-dvdrip/ifo"
)

// SectorRange is one contiguous run of logical sectors to stream, in
// playback order. Ranges are never coalesced across cells: the CSS key
// changes at cell boundaries, so each cell must be entered through its
// own seek.
type SectorRange struct {
	Start uint32
	Last  uint32
}

// SectorCount returns the number of 2048-byte sectors in the range.
func (r SectorRange) SectorCount() uint32 {
	return r.Last - r.Start + 1
}

// ChapterRange selects an inclusive, 1-based span of chapters. A zero
// value (both fields 0) means "the whole title".
type ChapterRange struct {
	First int
	Last  int
}

func (r ChapterRange) isSet() bool {
	return r.First != 0 || r.Last != 0
}

// Resolve builds the ordered SectorRange playlist for title, optionally
// restricted to chapters, per spec §4.3.
func Resolve(title *ifo.Title, chapters ChapterRange) ([]SectorRange, error) {
	if !chapters.isSet() {
		return playlistFromCells(title.Cells), nil
	}

	chapterCount := len(title.Chapters)
	if chapters.First < 1 || chapters.Last < chapters.First || chapters.Last > chapterCount {
		return nil, ifo.InvalidRequestError{
			Reason: fmt.Sprintf(
				"chapter range [%d,%d] outside [1,%d]",
				chapters.First, chapters.Last, chapterCount,
			),
		}
	}

	firstCell := title.Chapters[chapters.First-1].FirstCell
	lastCell := title.Chapters[chapters.Last-1].LastCell

	if firstCell < 1 || lastCell > len(title.Cells) || firstCell > lastCell {
		return nil, ifo.InvalidRequestError{
			Reason: fmt.Sprintf("chapter range resolves to invalid cell span [%d,%d]", firstCell, lastCell),
		}
	}

	return playlistFromCells(title.Cells[firstCell-1 : lastCell]), nil
}

func playlistFromCells(cells []ifo.CellRef) []SectorRange {
	playlist := make([]SectorRange, len(cells))
	for i, c := range cells {
		playlist[i] = SectorRange{Start: c.StartSector, Last: c.LastSector}
	}
	return playlist
}

// BytesTotal computes the a-priori total byte count of a playlist, per
// spec §3's Progress.bytes_total definition.
func BytesTotal(playlist []SectorRange) int64 {
	var total int64
	for _, r := range playlist {
		total += int64(r.SectorCount()) * 2048
	}
	return total
}
