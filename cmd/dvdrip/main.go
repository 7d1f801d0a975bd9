// Command dvdrip resolves command-line flags into a RipRequest and
// drives the rip engine, printing progress to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/afero"

	"github.com/openripper/go-dvdrip/archive"
	"github.com/openripper/go-dvdrip/resolver"
	"github.com/openripper/go-dvdrip/ripper"
)

var (
	inputPath    = flag.String("i", "", "VIDEO_TS directory or archive (.zip/.7z/.rar) containing one (required)")
	titleNumber  = flag.Int("t", 1, "title number to rip")
	chapters     = flag.String("c", "", "chapter range, e.g. \"2-4\" (whole title if omitted)")
	destination  = flag.String("o", "", "destination file path (required)")
	decrypt      = flag.Bool("decrypt", false, "decrypt via a CSS-handle source instead of reading the filesystem directly")
	devicePath   = flag.String("device", "", "raw device path, required when -decrypt is set")
	cssLibPath   = flag.String("css-lib", "", "path to the native CSS library, required when -decrypt is set")
	manifestPath = flag.String("manifest", "", "optional path to write a RipManifest sidecar")
	version      = flag.Bool("version", false, "print version and exit")
)

const appVersion = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i <VIDEO_TS dir or archive> -o <destination> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rips a DVD-Video title to a raw MPEG program-stream file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i /media/dvd/VIDEO_TS -o movie.vob\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i disc.zip -t 2 -c 2-4 -o movie.vob\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i /media/dvd/VIDEO_TS -decrypt -device /dev/sr0 -css-lib /usr/lib/libdvdcss.so -o movie.vob\n", os.Args[0])
	}
	flag.Parse()

	if *version {
		fmt.Printf("dvdrip version %s\n", appVersion)
		os.Exit(0)
	}

	if *inputPath == "" || *destination == "" {
		fmt.Fprintf(os.Stderr, "Error: -i and -o are required\n")
		flag.Usage()
		os.Exit(1)
	}
	if *decrypt && (*devicePath == "" || *cssLibPath == "") {
		fmt.Fprintf(os.Stderr, "Error: -decrypt requires -device and -css-lib\n")
		os.Exit(1)
	}

	chapterRange, err := parseChapterRange(*chapters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fs := afero.NewOsFs()
	videoTSPath, cleanup, err := resolveVideoTS(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error staging input: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	req := ripper.RipRequest{
		VideoTsPath:    videoTSPath,
		RawDevicePath:  *devicePath,
		CSSLibraryPath: *cssLibPath,
		TitleNumber:    *titleNumber,
		ChapterRange:   chapterRange,
		Decrypt:        *decrypt,
		Destination:    *destination,
		ManifestPath:   *manifestPath,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := ripper.Rip(ctx, req, fs, printProgress, nil)
	if err != nil {
		var cancelled ripper.CancelledError
		// os.Exit skips deferred calls, so the staged input is removed here.
		cleanup()
		if errors.As(err, &cancelled) {
			fmt.Fprintln(os.Stderr, "\nRip cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error ripping: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDone: %s\n", path)
}

// resolveVideoTS returns a VIDEO_TS directory path for input, staging
// it from an archive first when needed. The returned cleanup func
// removes any scratch directory created along the way and must always
// be called.
func resolveVideoTS(input string) (path string, cleanup func(), err error) {
	ext := strings.ToLower(filepath.Ext(input))
	if !archive.IsArchiveExtension(ext) {
		return input, func() {}, nil
	}

	scratchDir, err := os.MkdirTemp("", "dvdrip-stage-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("create scratch dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(scratchDir) }

	videoTSPath, err := archive.Stage(afero.NewOsFs(), input, scratchDir)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}
	return videoTSPath, cleanup, nil
}

// parseChapterRange parses "start-end" into a resolver.ChapterRange.
// An empty string means "the whole title".
func parseChapterRange(s string) (resolver.ChapterRange, error) {
	if s == "" {
		return resolver.ChapterRange{}, nil
	}
	first, last, ok := strings.Cut(s, "-")
	if !ok {
		return resolver.ChapterRange{}, fmt.Errorf("chapter range %q must be of the form start-end", s)
	}
	firstN, err := strconv.Atoi(first)
	if err != nil {
		return resolver.ChapterRange{}, fmt.Errorf("chapter range %q: %w", s, err)
	}
	lastN, err := strconv.Atoi(last)
	if err != nil {
		return resolver.ChapterRange{}, fmt.Errorf("chapter range %q: %w", s, err)
	}
	return resolver.ChapterRange{First: firstN, Last: lastN}, nil
}

func printProgress(p ripper.Progress) {
	if p.BytesTotal == 0 {
		return
	}
	pct := float64(p.BytesWritten) / float64(p.BytesTotal) * 100
	fmt.Fprintf(os.Stderr, "\r%6.2f%%  %d / %d bytes", pct, p.BytesWritten, p.BytesTotal)
}
