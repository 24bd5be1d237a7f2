package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2hatena "github.com/alnah/go-md2hatena"
	"github.com/alnah/go-md2hatena/internal/fileutil"
)

// Sentinel errors for render and export.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoMarkdown         = fmt.Errorf("%w: no markdown files found", ErrNoInput)
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrRenderFailed       = errors.New("every render failed")
	ErrPartialRender      = errors.New("some renders failed")
)

// runRender renders one file or every markdown file under a directory.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render takes one file or directory", ErrNoInput)
	}

	cfg, envCfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	log, err := newLogger(cfg, &flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pub, err := newPublisher(cfg, log, env)
	if err != nil {
		return err
	}

	jobs, err := discoverFiles(positional[0], flags.output)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: %s", ErrNoMarkdown, positional[0])
	}

	outcomes := pub.RenderBatch(ctx, jobs, workers)
	return reportOutcomes(outcomes, flags.common.quiet, env)
}

// discoverFiles finds all markdown files to render.
func discoverFiles(inputPath, output string) ([]md2hatena.RenderJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdown(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []md2hatena.RenderJob{{Input: inputPath, Output: resolveOutputPath(inputPath, output, "")}}, nil
	}

	var jobs []md2hatena.RenderJob
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		jobs = append(jobs, md2hatena.RenderJob{Input: path, Output: resolveOutputPath(path, output, inputPath)})
		return nil
	})
	return jobs, err
}

// resolveOutputPath determines the HTML output path for a markdown file.
// An output ending in .html names the file; any other output is a
// directory that mirrors the input tree.
func resolveOutputPath(inputPath, output, baseInputDir string) string {
	if output == "" {
		return ""
	}
	if strings.HasSuffix(output, ".html") && baseInputDir == "" {
		return output
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".html"
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(output, filepath.Dir(rel), base)
		}
	}
	return filepath.Join(output, base)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2hatena.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2hatena.MaxPoolSize)
	}
	return nil
}

// reportOutcomes prints each outcome and summarizes failures as an error.
func reportOutcomes(outcomes []md2hatena.RenderOutcome, quiet bool, env *Environment) error {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", o.Job.Input, o.Err)
			continue
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", o.Written)
		}
	}

	if !quiet && len(outcomes) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(outcomes)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case failed == len(outcomes) && len(outcomes) == 1:
		return outcomes[0].Err
	case failed == len(outcomes):
		return fmt.Errorf("%w: %d files", ErrRenderFailed, failed)
	default:
		return fmt.Errorf("%w: %d of %d", ErrPartialRender, failed, len(outcomes))
	}
}
