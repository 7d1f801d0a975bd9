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

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"

	"github.com/openripper/go-dvdrip/ifo"
	"github.com/openripper/go-dvdrip/internal/destfile"
	"github.com/openripper/go-dvdrip/resolver"
	"github.com/openripper/go-dvdrip/sectorsource"
)

// Rip is the engine's entry point: it resolves req into a sector
// playlist and streams it to req.Destination on fs, reporting
// progress through onProgress (which may be nil) and honouring ctx
// cancellation at every batch boundary. It returns the destination
// path on success.
//
// The single-threaded cooperative steps follow spec §4.5 exactly: one
// sector source for the whole rip, one reusable ReadBatch-sized
// buffer, per-cell seeks that are never coalesced, and best-effort
// cleanup of the destination on any failure or cancellation that
// occurs after the destination file was created.
func Rip(ctx context.Context, req RipRequest, fs afero.Fs, onProgress ProgressFunc, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	disc, err := ifo.ParseDisc(req.VideoTsPath, logger)
	if err != nil {
		return "", fmt.Errorf("parse disc: %w", err)
	}

	title, err := ifo.LoadTitle(disc, req.TitleNumber, logger)
	if err != nil {
		return "", fmt.Errorf("load title: %w", err)
	}

	playlist, err := resolver.Resolve(title, req.ChapterRange)
	if err != nil {
		return "", fmt.Errorf("resolve playlist: %w", err)
	}
	bytesTotal := resolver.BytesTotal(playlist)

	source := newSource(req, title)
	if err := source.Open(ctx); err != nil {
		return "", fmt.Errorf("open sector source: %w", err)
	}
	defer func() { _ = source.Close() }()

	dest, err := destfile.Create(fs, req.Destination)
	if err != nil {
		return "", IoWriteError{Reason: err.Error()}
	}

	if err := stream(ctx, source, dest, playlist, bytesTotal, req.Decrypt, onProgress); err != nil {
		dest.Discard()
		return "", err
	}

	if err := dest.Flush(); err != nil {
		dest.Discard()
		return "", IoWriteError{Reason: err.Error()}
	}
	if err := dest.Close(); err != nil {
		dest.Discard()
		return "", IoWriteError{Reason: err.Error()}
	}

	if req.ManifestPath != "" {
		manifest := RipManifest{
			TitleNumber:     req.TitleNumber,
			ChapterRange:    req.ChapterRange,
			Playlist:        playlist,
			AudioStreams:    title.AudioStreams,
			SubtitleStreams: title.SubtitleStreams,
			BytesWritten:    bytesTotal,
		}
		if err := saveManifest(fs, req.ManifestPath, manifest); err != nil {
			logger.Printf("dvdrip: manifest not written: %v", err)
		}
	}

	return dest.Path(), nil
}

// newSource constructs the sector source matching req.Decrypt. Per
// spec §4.5 step 1, a decrypt request always uses the CSS-handle
// variant, even against an unencrypted title — it degrades to
// passthrough rather than falling back to the file-backed variant.
func newSource(req RipRequest, title *ifo.Title) sectorsource.Source {
	if req.Decrypt {
		return sectorsource.NewCSSHandle(req.CSSLibraryPath, req.RawDevicePath)
	}
	return sectorsource.NewFileSource(req.VideoTsPath, title.Entry.VTSNumber)
}

// stream drives the per-range seek/read/write loop (spec §4.5 step 5).
// One sector source and one reusable buffer cover the entire playlist;
// cells are never coalesced, so every range gets its own seek.
func stream(
	ctx context.Context,
	source sectorsource.Source,
	dest *destfile.File,
	playlist []resolver.SectorRange,
	bytesTotal int64,
	decrypt bool,
	onProgress ProgressFunc,
) error {
	buf := make([]byte, ReadBatch*sectorsource.SectorSize)
	var bytesWritten int64

	for _, r := range playlist {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		if err := source.Seek(r.Start, decrypt); err != nil {
			return fmt.Errorf("seek: %w", err)
		}

		remaining := r.SectorCount()
		cursor := r.Start
		for remaining > 0 {
			if err := checkCancelled(ctx); err != nil {
				return err
			}

			batch := remaining
			if batch > ReadBatch {
				batch = ReadBatch
			}

			sectorsRead, err := source.Read(buf, int(batch), decrypt)
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}
			if sectorsRead <= 0 {
				return ShortReadError{Sector: cursor}
			}

			n := sectorsRead * sectorsource.SectorSize
			if _, err := dest.Write(buf[:n]); err != nil {
				return IoWriteError{Reason: err.Error()}
			}

			bytesWritten += int64(n)
			cursor += uint32(sectorsRead)
			remaining -= uint32(sectorsRead)

			if onProgress != nil {
				onProgress(Progress{BytesWritten: bytesWritten, BytesTotal: bytesTotal})
			}

			if err := checkCancelled(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return CancelledError{}
	default:
		return nil
	}
}
