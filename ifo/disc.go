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
	"os"
	"path/filepath"
	"strings"

	bin "github.com/openripper/go-dvdrip/internal/binary"
)

const (
	vmgMagic = "DVDVIDEO-VMG"

	ttSRPTPointerOff = 0xC4
)

// ParseDisc reads VIDEO_TS.IFO and returns the global title table. Each
// TitleEntry whose VTS has no corresponding VTS_nn_0.IFO on disk is
// skipped with a logged warning rather than aborting the whole pass —
// per spec, per-title parse failures during whole-disc enumeration are
// the one error class the core recovers from internally. A nil logger
// sends warnings to standard error.
func ParseDisc(videoTsPath string, logger *log.Logger) (*Disc, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	mainPath, err := findCaseInsensitive(videoTsPath, "VIDEO_TS.IFO")
	if err != nil {
		return nil, fmt.Errorf("locate VIDEO_TS.IFO: %w", err)
	}

	data, err := os.ReadFile(mainPath) //nolint:gosec // path resolved from validated VIDEO_TS directory
	if err != nil {
		return nil, fmt.Errorf("read VIDEO_TS.IFO: %w", err)
	}

	entries, err := parseTTSRPT(data)
	if err != nil {
		return nil, err
	}

	disc := &Disc{VideoTsPath: videoTsPath}
	for _, entry := range entries {
		if _, _, err := locateVTSFile(videoTsPath, entry.VTSNumber); err != nil {
			logger.Printf("dvdrip: dropping title %d: %v", entry.TitleNumber, err)
			continue
		}
		disc.Titles = append(disc.Titles, entry)
	}
	return disc, nil
}

// parseTTSRPT validates the VMG magic and decodes the TT_SRPT table per
// spec §4.2.1.
func parseTTSRPT(data []byte) ([]TitleEntry, error) {
	if len(data) < 12 || !bin.BytesEqual([]byte(data[:12]), []byte(vmgMagic)) {
		return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "bad magic"}
	}

	ttSRPTSector, err := bin.U32BE(data, ttSRPTPointerOff)
	if err != nil {
		return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated TT_SRPT pointer"}
	}
	base := bin.SectorToByteOffset(ttSRPTSector)

	titleCount, err := bin.U16BE(data, base)
	if err != nil {
		return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated TT_SRPT header"}
	}

	entries := make([]TitleEntry, 0, titleCount)
	for i := range int(titleCount) {
		off := base + 8 + 12*i

		angleCount, err := bin.U8(data, off+1)
		if err != nil {
			return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated title entry"}
		}
		chapterCount, err := bin.U16BE(data, off+2)
		if err != nil {
			return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated title entry"}
		}
		vtsNumber, err := bin.U8(data, off+6)
		if err != nil {
			return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated title entry"}
		}
		titleInVTS, err := bin.U8(data, off+7)
		if err != nil {
			return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated title entry"}
		}
		vtsEntrySector, err := bin.U32BE(data, off+8)
		if err != nil {
			return nil, CorruptIfoError{File: "VIDEO_TS.IFO", Reason: "truncated title entry"}
		}

		entries = append(entries, TitleEntry{
			TitleNumber:    i + 1,
			VTSNumber:      int(vtsNumber),
			TitleInVTS:     int(titleInVTS),
			ChapterCount:   int(chapterCount),
			AngleCount:     int(angleCount),
			VTSEntrySector: vtsEntrySector,
		})
	}
	return entries, nil
}

// LoadTitle joins the TitleEntry for titleNumber with its VTS IFO data
// to produce the fully parsed Title.
func LoadTitle(disc *Disc, titleNumber int, logger *log.Logger) (*Title, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	var entry *TitleEntry
	for i := range disc.Titles {
		if disc.Titles[i].TitleNumber == titleNumber {
			entry = &disc.Titles[i]
			break
		}
	}
	if entry == nil {
		return nil, InvalidRequestError{Reason: fmt.Sprintf("title %d not found on disc", titleNumber)}
	}

	vtsPath, _, err := locateVTSFile(disc.VideoTsPath, entry.VTSNumber)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(vtsPath) //nolint:gosec // path resolved from validated VIDEO_TS directory
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(vtsPath), err)
	}

	return parseVTSTitle(data, *entry, logger)
}

// locateVTSFile resolves the on-disk path of VTS_nn_0.IFO for the
// given VTS number, case-insensitively, per spec §6.
func locateVTSFile(videoTsPath string, vtsNumber int) (ifoPath string, name string, err error) {
	name = fmt.Sprintf("VTS_%02d_0.IFO", vtsNumber)
	path, err := findCaseInsensitive(videoTsPath, name)
	if err != nil {
		return "", name, MissingFileError{Path: filepath.Join(videoTsPath, name)}
	}
	return path, name, nil
}

// findCaseInsensitive resolves name within dir tolerating case
// differences, since VIDEO_TS trees are authored for filesystems that
// may or may not be case-sensitive.
func findCaseInsensitive(dir, name string) (string, error) {
	direct := filepath.Join(dir, name)
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%s not found in %s", name, dir)
}
