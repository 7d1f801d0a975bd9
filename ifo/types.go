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

// Package ifo decodes the IFO metadata tree of a DVD-Video disc
// (VIDEO_TS.IFO and each VTS_nn_0.IFO) into an immutable, value-typed
// disc model: titles, chapters, cells, and stream metadata.
package ifo

import "time"

// AudioFormat enumerates the coding formats an IFO VTS audio attribute
// table can declare.
type AudioFormat string

// Audio coding formats, per IFO VTS audio attribute byte 0 bits 5..7.
const (
	AudioFormatAC3     AudioFormat = "AC-3"
	AudioFormatMPEG1   AudioFormat = "MPEG-1"
	AudioFormatMPEG2   AudioFormat = "MPEG-2"
	AudioFormatLPCM    AudioFormat = "LPCM"
	AudioFormatDTS     AudioFormat = "DTS"
	AudioFormatUnknown AudioFormat = "Unknown"
)

// Disc is the root of the parsed disc model: the global title table
// plus a reference to the VIDEO_TS directory it was parsed from. It is
// produced once per rip session by ParseDisc and is immutable
// thereafter.
type Disc struct {
	VideoTsPath string
	Titles      []TitleEntry
}

// TitleEntry is one entry from VIDEO_TS.IFO's TT_SRPT (global title
// table). It does not itself carry PGC/cell data — call LoadTitle to
// join it with its VTS for the full Title.
type TitleEntry struct {
	TitleNumber    int // 1-based, unique within Disc
	VTSNumber      int // 1..99
	TitleInVTS     int // 1-based within that VTS
	ChapterCount   int
	AngleCount     int
	VTSEntrySector uint32
}

// Title is the fully parsed title: a TitleEntry joined with its VTS's
// PGC, cell, and stream data.
type Title struct {
	Entry           TitleEntry
	Duration        time.Duration
	Chapters        []Chapter
	AudioStreams    []AudioStream
	SubtitleStreams []SubtitleStream
	Cells           []CellRef
}

// Chapter is one program: a contiguous run of cells exposed to the
// user as a chapter.
type Chapter struct {
	ChapterNumber      int // 1-based, contiguous
	FirstCell          int // 1-based into Title.Cells, inclusive
	LastCell           int // 1-based into Title.Cells, inclusive
	Duration           time.Duration
	StartOffsetInTitle time.Duration
}

// CellRef is one cell in playback order.
type CellRef struct {
	VOBID       uint16
	CellID      uint8
	Angle       uint8 // 0, or 1..9
	StartSector uint32
	LastSector  uint32
	Duration    time.Duration
}

// SectorCount returns the number of 2048-byte logical sectors this
// cell spans.
func (c CellRef) SectorCount() uint32 {
	return c.LastSector - c.StartSector + 1
}

// AudioStream is descriptive metadata for one audio track; it carries
// no sector information.
type AudioStream struct {
	Index      int
	Language   string // ISO-639 2-letter code, or "und"
	Format     AudioFormat
	Channels   int // 1..8
	SampleRate int // 48000 or 96000
}

// SubtitleStream is descriptive metadata for one subtitle track.
type SubtitleStream struct {
	Index    int
	Language string
}
