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

import "context"

// SectorSize is the fixed DVD logical sector size in bytes.
const SectorSize = 2048

// Source is the capability the rip engine drives: position at a
// logical sector and fill a buffer with raw (or CSS-descrambled)
// sector bytes. Dispatch between the CSS-handle and file-backed
// variants is fixed at construction; Source itself never branches on
// which one it is.
type Source interface {
	// Open acquires whatever native handle or file descriptors the
	// variant needs. Idempotent as long as Close is called between
	// calls.
	Open(ctx context.Context) error

	// Seek positions the cursor at sector. When requestKey is true and
	// the variant supports decryption, it negotiates the title key for
	// the cell starting at that sector before the next Read.
	Seek(sector uint32, requestKey bool) error

	// Read fills up to sectorCount*SectorSize bytes of buf, returning
	// the number of whole sectors actually read. Short reads are
	// permitted; the caller loops. When decrypt is true, returned bytes
	// are CSS-descrambled.
	Read(buf []byte, sectorCount int, decrypt bool) (sectorsRead int, err error)

	// Close releases the native handle or file descriptors. Safe to
	// call more than once.
	Close() error

	// SupportsDecryption reports whether this variant can produce
	// descrambled bytes at all.
	SupportsDecryption() bool
}
