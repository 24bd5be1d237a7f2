package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	md2hatena "github.com/alnah/go-md2hatena"
	"github.com/alnah/go-md2hatena/internal/config"
	"github.com/alnah/go-md2hatena/internal/fileutil"
	"github.com/alnah/go-md2hatena/internal/hints"
)

// errMissingCredentials marks configuration errors caused by an absent
// endpoint or API key.
var errMissingCredentials = fmt.Errorf("%w: missing credentials", md2hatena.ErrConfiguration)

// runPublish publishes one markdown file.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePublishFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: publish takes exactly one file", ErrUsage)
	}
	path := positional[0]
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}

	cfg, _, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	if flags.timeout > 0 {
		cfg.Hatena.Timeout = flags.timeout
	}
	if err := ensureCredentials(cfg, env); err != nil {
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

	post, err := pub.Prepare(path, publishOverrides(flags))
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		printPostSummary(env, post)
	}
	if !flags.yes && !confirm(env) {
		fmt.Fprintln(env.Stdout, "Cancelled.")
		return nil
	}

	res, err := pub.Publish(ctx, post)
	if res != nil {
		printPublishResult(env, res, flags.common.quiet)
	}
	return err
}

// publishOverrides maps flags onto document overrides.
func publishOverrides(flags *publishFlags) md2hatena.Overrides {
	ov := md2hatena.Overrides{
		Title:      flags.title,
		Categories: flags.categories,
	}
	switch {
	case flags.draft:
		draft := true
		ov.Draft = &draft
	case flags.public:
		draft := false
		ov.Draft = &draft
	}
	return ov
}

// ensureCredentials prompts for a missing API key on a terminal. The
// endpoint cannot be prompted for.
func ensureCredentials(cfg *config.Config, env *Environment) error {
	if env.Client != nil {
		return nil
	}
	if cfg.Hatena.RootEndpoint == "" {
		return fmt.Errorf("%w: no root endpoint", errMissingCredentials)
	}
	if cfg.Hatena.APIKey != "" {
		return nil
	}
	if hints.InCI() || env.IsTerminal == nil || !env.IsTerminal() {
		return fmt.Errorf("%w: no API key", errMissingCredentials)
	}

	fmt.Fprint(env.Stderr, "API key: ")
	key, err := env.ReadSecret()
	fmt.Fprintln(env.Stderr)
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: no API key", errMissingCredentials)
	}
	if len(key) > config.MaxAPIKeyLength {
		return fmt.Errorf("%w: API key (%d chars, max %d)", config.ErrFieldTooLong, len(key), config.MaxAPIKeyLength)
	}
	cfg.Hatena.APIKey = key
	return nil
}

// printPostSummary shows what is about to be sent.
func printPostSummary(env *Environment, post *md2hatena.Post) {
	action := "create new entry"
	if post.IsUpdate() {
		action = "update " + post.MemberURI
	}
	state := "public"
	if post.Draft {
		state = "draft"
	}
	categories := "(none)"
	if len(post.Categories) > 0 {
		categories = strings.Join(post.Categories, ", ")
	}

	fmt.Fprintf(env.Stdout, "Title:      %s\n", post.Title)
	fmt.Fprintf(env.Stdout, "Categories: %s\n", categories)
	fmt.Fprintf(env.Stdout, "State:      %s\n", state)
	fmt.Fprintf(env.Stdout, "Action:     %s\n", action)
}

// confirm asks for a yes on stdin. Anything else, including EOF, declines.
func confirm(env *Environment) bool {
	fmt.Fprint(env.Stdout, "Publish? [y/N]: ")
	answer := strings.ToLower(strings.TrimSpace(readLine(env.Stdin)))
	return answer == "y" || answer == "yes"
}

// printPublishResult reports the outcome and any skipped images.
func printPublishResult(env *Environment, res *md2hatena.Result, quiet bool) {
	for _, img := range res.Images {
		if img.Err == nil {
			continue
		}
		msg := fmt.Sprintf("warning: image %s not uploaded: %v", img.Embed, img.Err)
		if errors.Is(img.Err, md2hatena.ErrImageNotFound) {
			msg += hints.ForImageNotFound()
		}
		fmt.Fprintln(env.Stderr, msg)
	}
	if quiet {
		return
	}

	verb := "Published"
	switch {
	case res.Updated:
		verb = "Updated"
	case res.Draft:
		verb = "Saved draft"
	}
	location := res.PublicURL
	if location == "" {
		location = res.EditURI
	}
	fmt.Fprintf(env.Stdout, "%s %s\n", verb, location)
}
