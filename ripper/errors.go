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

import "fmt"

// IoWriteError wraps a failure to create, write, or flush the
// destination file.
type IoWriteError struct {
	Reason string
}

func (e IoWriteError) Error() string {
	return fmt.Sprintf("destination write failed: %s", e.Reason)
}

// CancelledError is returned when the rip was aborted by cooperative
// cancellation rather than by any I/O failure.
type CancelledError struct{}

func (e CancelledError) Error() string {
	return "rip cancelled"
}

// ShortReadError indicates a sector source returned zero (or
// negative) sectors read while the playlist still expected data —
// a fatal condition distinct from the permitted short-read case where
// progress is merely nonzero but less than requested.
type ShortReadError struct {
	Sector uint32
}

func (e ShortReadError) Error() string {
	return fmt.Sprintf("sector source returned no data at sector %d", e.Sector)
}
