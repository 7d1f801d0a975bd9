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

package archive_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/openripper/go-dvdrip/archive"
)

func TestStageExtractsVideoTSTree(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	files := map[string][]byte{
		"VIDEO_TS/VIDEO_TS.IFO": []byte("main ifo"),
		"VIDEO_TS/VTS_01_0.IFO": []byte("vts ifo"),
		"VIDEO_TS/VTS_01_1.VOB": []byte("vob data"),
		"README.txt":            []byte("not part of the disc"),
	}
	zipPath := createTestZIP(t, tmpDir, "disc.zip", files)

	fs := afero.NewMemMapFs()
	videoTSPath, err := archive.Stage(fs, zipPath, "/scratch")
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	for _, name := range []string{"VIDEO_TS.IFO", "VTS_01_0.IFO", "VTS_01_1.VOB"} {
		exists, err := afero.Exists(fs, videoTSPath+"/"+name)
		if err != nil {
			t.Fatalf("Exists(%s): %v", name, err)
		}
		if !exists {
			t.Errorf("expected %s to be extracted into %s", name, videoTSPath)
		}
	}

	exists, _ := afero.Exists(fs, videoTSPath+"/README.txt")
	if exists {
		t.Error("README.txt should not be extracted; it is outside the VIDEO_TS tree")
	}
}

func TestStageExtractsVideoTSTreeAtArchiveRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	files := map[string][]byte{
		"VIDEO_TS.IFO": []byte("main ifo"),
		"VTS_01_0.IFO": []byte("vts ifo"),
		"VTS_01_1.VOB": []byte("vob data"),
	}
	zipPath := createTestZIP(t, tmpDir, "disc.zip", files)

	fs := afero.NewMemMapFs()
	videoTSPath, err := archive.Stage(fs, zipPath, "/scratch")
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	for name := range files {
		exists, err := afero.Exists(fs, videoTSPath+"/"+name)
		if err != nil {
			t.Fatalf("Exists(%s): %v", name, err)
		}
		if !exists {
			t.Errorf("expected %s to be extracted into %s", name, videoTSPath)
		}
	}
}

func TestStageNoVideoTS(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	zipPath := createTestZIP(t, tmpDir, "notadisc.zip", map[string][]byte{
		"readme.txt": []byte("nothing here"),
	})

	fs := afero.NewMemMapFs()
	_, err := archive.Stage(fs, zipPath, "/scratch")
	if err == nil {
		t.Fatal("expected error for archive with no VIDEO_TS tree")
	}

	var archErr archive.ArchiveError
	if !errors.As(err, &archErr) {
		t.Errorf("expected ArchiveError, got %T", err)
	}
}
