package main

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openripper/go-dvdrip/resolver"
)

// TestParseChapterRange tests chapter-range flag parsing.
func TestParseChapterRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    resolver.ChapterRange
		wantErr bool
	}{
		{"empty means whole title", "", resolver.ChapterRange{}, false},
		{"well-formed range", "2-4", resolver.ChapterRange{First: 2, Last: 4}, false},
		{"single chapter as a range", "3-3", resolver.ChapterRange{First: 3, Last: 3}, false},
		{"missing dash", "24", resolver.ChapterRange{}, true},
		{"non-numeric first", "a-4", resolver.ChapterRange{}, true},
		{"non-numeric last", "2-b", resolver.ChapterRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChapterRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseChapterRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseChapterRange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// TestCLIVersion tests the version flag.
func TestCLIVersion(t *testing.T) {
	binPath := buildCLI(t)

	cmd := exec.Command(binPath, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run -version: %v", err)
	}

	if !strings.Contains(string(output), "dvdrip version") {
		t.Errorf("version output incorrect: %s", output)
	}
}

// TestCLIMissingRequiredFlags covers the -i/-o required-flag check:
// the process must exit non-zero and say so on stderr.
func TestCLIMissingRequiredFlags(t *testing.T) {
	binPath := buildCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing all args", []string{}},
		{"missing destination", []string{"-i", "/media/dvd/VIDEO_TS"}},
		{"missing input", []string{"-o", "movie.vob"}},
		{"decrypt without device/css-lib", []string{"-i", "/media/dvd/VIDEO_TS", "-o", "movie.vob", "-decrypt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			output, err := cmd.CombinedOutput()
			if err == nil {
				t.Fatalf("expected non-zero exit, got success; output: %s", output)
			}
			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
			}
			if exitErr.ExitCode() != 1 {
				t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
			}
			if !strings.Contains(string(output), "Error") {
				t.Errorf("expected an Error message on output, got: %s", output)
			}
		})
	}
}

// TestCLIInputNotFound covers a VIDEO_TS path that does not exist.
func TestCLIInputNotFound(t *testing.T) {
	binPath := buildCLI(t)

	cmd := exec.Command(binPath, "-i", "/nonexistent/VIDEO_TS", "-o", filepath.Join(t.TempDir(), "movie.vob"))
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected error for non-existent input")
	}
}

func buildCLI(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "dvdrip")
	cmd := exec.Command("go", "build", "-o", binPath, "github.com/openripper/go-dvdrip/cmd/dvdrip")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binPath
}
