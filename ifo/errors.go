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

import "fmt"

// CorruptIfoError indicates an IFO file failed a structural check: bad
// magic, an impossible offset, or an inconsistent count.
type CorruptIfoError struct {
	File   string
	Reason string
}

func (e CorruptIfoError) Error() string {
	return fmt.Sprintf("corrupt IFO %s: %s", e.File, e.Reason)
}

// MissingFileError indicates a referenced VTS IFO file is absent from
// the VIDEO_TS directory.
type MissingFileError struct {
	Path string
}

func (e MissingFileError) Error() string {
	return fmt.Sprintf("missing file: %s", e.Path)
}

// InvalidRequestError indicates a title number or chapter range falls
// outside what the parsed disc actually contains.
type InvalidRequestError struct {
	Reason string
}

func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}
