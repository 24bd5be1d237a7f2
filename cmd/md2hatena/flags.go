package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage is returned for invalid flags or arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	theme   string
	quiet   bool
	verbose bool
}

// publishFlags holds flags for the publish command.
type publishFlags struct {
	common     commonFlags
	title      string
	categories []string
	draft      bool
	public     bool
	yes        bool
	timeout    time.Duration
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common  commonFlags
	output  string
	workers int
}

// exportFlags holds flags for export-css and export-js.
type exportFlags struct {
	common commonFlags
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.theme, "theme", "", "highlighting theme")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs and wraps failures with ErrUsage. flag.ErrHelp is returned
// as is so callers can exit cleanly.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parsePublishFlags parses publish command flags and returns positional args.
func parsePublishFlags(args []string, stderr io.Writer) (*publishFlags, []string, error) {
	f := &publishFlags{}
	fs := newFlagSet("publish", stderr, printPublishUsage)

	fs.StringVar(&f.title, "title", "", "entry title (default: frontmatter, H1, then file name)")
	fs.StringArrayVar(&f.categories, "category", nil, "entry category (repeatable)")
	fs.BoolVar(&f.draft, "draft", false, "always save as a draft")
	fs.BoolVar(&f.public, "publish", false, "always publish publicly")
	fs.BoolVarP(&f.yes, "yes", "y", false, "skip the confirmation prompt")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-request timeout (e.g. 30s, 2m)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	if f.draft && f.public {
		return nil, nil, fmt.Errorf("%w: --draft and --publish are mutually exclusive", ErrUsage)
	}
	if f.timeout < 0 {
		return nil, nil, fmt.Errorf("%w: --timeout must be positive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export-css and export-js flags.
func parseExportFlags(name string, args []string, stderr io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet(name, stderr, func(w io.Writer) { printExportUsage(w, name) })

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
