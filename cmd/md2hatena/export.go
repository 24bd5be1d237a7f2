package main

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2hatena/internal/fileutil"
)

// runExport prints the CSS (export-css) or module script (export-js) for
// the configured theme.
func runExport(name string, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(name, args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: %s takes no arguments", ErrUsage, name)
	}

	cfg, _, err := loadConfig(&flags.common, env)
	if err != nil {
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

	var out string
	if name == "export-js" {
		out, err = pub.ExportScripts("")
	} else {
		out, err = pub.ExportStyles("")
	}
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if flags.output == "" {
		_, err = fmt.Fprint(env.Stdout, out)
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, out, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Created %s\n", flags.output)
	}
	return nil
}
