package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	md2hatena "github.com/alnah/go-md2hatena"
)

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path mapping
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		output  string
		baseDir string
		want    string
	}{
		{"no output keeps sibling", "docs/a.md", "", "", ""},
		{"explicit html file", "docs/a.md", "out/page.html", "", "out/page.html"},
		{"directory for single file", "docs/a.md", "out", "", filepath.Join("out", "a.html")},
		{"markdown extension", "docs/a.markdown", "out", "", filepath.Join("out", "a.html")},
		{"mirrors tree", filepath.Join("docs", "sub", "b.md"), "out", "docs", filepath.Join("out", "sub", "b.html")},
		{"html output is a dir in batch", filepath.Join("docs", "c.md"), "site.html", "docs", filepath.Join("site.html", "c.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveOutputPath(tt.input, tt.output, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.baseDir, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.markdown", "notes.txt", filepath.Join("nested", "c.md")} {
		writeFile(t, dir, name, "# x\n")
	}

	jobs, err := discoverFiles(dir, "out")
	if err != nil {
		t.Fatalf("discoverFiles() unexpected error: %v", err)
	}

	var outputs []string
	for _, j := range jobs {
		outputs = append(outputs, j.Output)
	}
	sort.Strings(outputs)
	want := []string{
		filepath.Join("out", "a.html"),
		filepath.Join("out", "b.html"),
		filepath.Join("out", "nested", "c.html"),
	}
	if strings.Join(outputs, "|") != strings.Join(want, "|") {
		t.Errorf("outputs = %v, want %v", outputs, want)
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "x")

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing", filepath.Join(dir, "nope.md"), os.ErrNotExist},
		{"wrong extension", txt, ErrInvalidExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := discoverFiles(tt.input, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("discoverFiles() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, md2hatena.MaxPoolSize} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) unexpected error: %v", n, err)
		}
	}
	for _, n := range []int{-1, md2hatena.MaxPoolSize + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestReportOutcomes - Batch summary and error classification
// ---------------------------------------------------------------------------

func TestReportOutcomes(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ok := md2hatena.RenderOutcome{Job: md2hatena.RenderJob{Input: "a.md"}, Written: "a.html"}
	bad := md2hatena.RenderOutcome{Job: md2hatena.RenderJob{Input: "b.md"}, Err: boom}

	tests := []struct {
		name     string
		outcomes []md2hatena.RenderOutcome
		wantErr  error
	}{
		{"all succeeded", []md2hatena.RenderOutcome{ok, ok}, nil},
		{"single failure keeps cause", []md2hatena.RenderOutcome{bad}, boom},
		{"all failed", []md2hatena.RenderOutcome{bad, bad}, ErrRenderFailed},
		{"some failed", []md2hatena.RenderOutcome{ok, bad}, ErrPartialRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Environment{Stdout: &stdout, Stderr: &stderr}

			err := reportOutcomes(tt.outcomes, false, env)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("reportOutcomes() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("reportOutcomes() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(stderr.String(), "FAILED b.md: boom") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}

func TestReportOutcomes_Quiet(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}
	outcomes := []md2hatena.RenderOutcome{
		{Job: md2hatena.RenderJob{Input: "a.md"}, Written: "a.html"},
		{Job: md2hatena.RenderJob{Input: "b.md"}, Written: "b.html"},
	}

	if err := reportOutcomes(outcomes, true, env); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet mode should print nothing, got %q", stdout.String())
	}
}
