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

// Package binary provides endian- and BCD-aware primitives for reading
// the legacy, sector-aligned binary layout of DVD-Video IFO files.
package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/icza/bitio"
)

// ErrTruncated is returned whenever an access falls outside the bounds
// of the in-memory IFO image.
var ErrTruncated = fmt.Errorf("truncated IFO data")

// SectorSize is the fixed DVD logical sector size in bytes.
const SectorSize = 2048

// U16BE reads a big-endian uint16 at off.
func U16BE(buf []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(buf) {
		return 0, fmt.Errorf("u16 at %#x: %w", off, ErrTruncated)
	}
	return binary.BigEndian.Uint16(buf[off : off+2]), nil
}

// U32BE reads a big-endian uint32 at off.
func U32BE(buf []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, fmt.Errorf("u32 at %#x: %w", off, ErrTruncated)
	}
	return binary.BigEndian.Uint32(buf[off : off+4]), nil
}

// U8 reads a single byte at off.
func U8(buf []byte, off int) (uint8, error) {
	if off < 0 || off+1 > len(buf) {
		return 0, fmt.Errorf("u8 at %#x: %w", off, ErrTruncated)
	}
	return buf[off], nil
}

// SectorToByteOffset converts a u32 sector pointer read from an IFO
// table into a byte offset within the same file.
func SectorToByteOffset(sector uint32) int {
	return int(sector) * SectorSize
}

// BCDByte decodes a single binary-coded-decimal byte. No validation of
// digit range is performed, matching DVD hardware behavior.
func BCDByte(b byte) int {
	return int((b>>4)&0xF)*10 + int(b&0xF)
}

// BCDDuration reads the 4-byte HH:MM:SS:FF timestamp used throughout
// IFO PGC/cell tables and returns the duration in whole milliseconds.
// The top two bits of the FF byte indicate frame rate: 0b11 selects
// NTSC (30fps); any other value is treated as PAL (25fps), per spec.
func BCDDuration(buf []byte, off int) (int64, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, fmt.Errorf("bcd duration at %#x: %w", off, ErrTruncated)
	}
	hh := BCDByte(buf[off])
	mm := BCDByte(buf[off+1])
	ss := BCDByte(buf[off+2])
	ffByte := buf[off+3]
	frames := BCDByte(ffByte & 0x3F)
	rateCode := (ffByte >> 6) & 0x3

	fps := 25
	if rateCode == 0x3 {
		fps = 30
	}

	totalMs := int64(hh*3600+mm*60+ss) * 1000
	totalMs += int64(frames) * 1000 / int64(fps)
	return totalMs, nil
}

// ASCII reads a fixed-length ASCII tag at off, without trimming.
func ASCII(buf []byte, off, n int) (string, error) {
	if off < 0 || off+n > len(buf) {
		return "", fmt.Errorf("ascii at %#x len %d: %w", off, n, ErrTruncated)
	}
	return string(buf[off : off+n]), nil
}

// TrimmedASCII reads a fixed-length ASCII tag and trims surrounding
// whitespace and trailing NUL bytes.
func TrimmedASCII(buf []byte, off, n int) (string, error) {
	s, err := ASCII(buf, off, n)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.TrimSpace(s), "\x00"), nil
}

// BitField describes one bit-packed value to pull out of a byte region,
// MSB-first, as it appears in DVD IFO attribute bytes (video attributes,
// audio coding/channel/sample-rate bits, PGC cell-type bits).
type BitField struct {
	Name string
	Bits uint8
}

// ReadBitFields reads consecutive MSB-first bit fields out of
// buf[off:off+n] using an icza/bitio reader, returning each field's raw
// value keyed by name in the order given. This replaces hand-rolled
// shift/mask arithmetic for the scattered bit-packed attribute bytes
// IFO tables are full of.
func ReadBitFields(buf []byte, off, n int, fields []BitField) (map[string]uint64, error) {
	if off < 0 || off+n > len(buf) {
		return nil, fmt.Errorf("bitfields at %#x len %d: %w", off, n, ErrTruncated)
	}
	r := bitio.NewReader(bytes.NewReader(buf[off : off+n]))
	out := make(map[string]uint64, len(fields))
	for _, f := range fields {
		v, err := r.ReadBits(f.Bits)
		if err != nil {
			return nil, fmt.Errorf("read bitfield %s: %w", f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}

// BytesEqual compares two byte slices for equality.
func BytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
