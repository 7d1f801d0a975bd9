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

// Package sectorsource provides the two sector-streaming capability
// variants consumed by the rip engine: a CSS-aware native handle and a
// file-backed reader over a VIDEO_TS directory.
package sectorsource

import "fmt"

// DecryptionUnavailable indicates the CSS native library could not be
// loaded or opened. Message names the required artifact and where it
// was expected.
type DecryptionUnavailable struct {
	Artifact string
	Path     string
	Reason   string
}

func (e DecryptionUnavailable) Error() string {
	return fmt.Sprintf("decryption unavailable: %s (expected at %s): %s", e.Artifact, e.Path, e.Reason)
}

// CapabilityViolation indicates decryption was requested from a source
// that does not support it.
type CapabilityViolation struct {
	Reason string
}

func (e CapabilityViolation) Error() string {
	return fmt.Sprintf("capability violation: %s", e.Reason)
}

// SectorReadError indicates a native read failure or premature
// end-of-data mid-cell.
type SectorReadError struct {
	Sector uint32
	Reason string
}

func (e SectorReadError) Error() string {
	return fmt.Sprintf("sector read failed at %d: %s", e.Sector, e.Reason)
}

// OpenError wraps a failure to open the sector source.
type OpenError struct {
	Reason string
}

func (e OpenError) Error() string {
	return fmt.Sprintf("open failed: %s", e.Reason)
}

// SeekError wraps a failure to position the sector source.
type SeekError struct {
	Sector uint32
	Reason string
}

func (e SeekError) Error() string {
	return fmt.Sprintf("seek to sector %d failed: %s", e.Sector, e.Reason)
}
