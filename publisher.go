package md2hatena

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2hatena/internal/atom"
	"github.com/alnah/go-md2hatena/internal/atompub"
	"github.com/alnah/go-md2hatena/internal/fileutil"
	"github.com/alnah/go-md2hatena/internal/frontmatter"
	"github.com/alnah/go-md2hatena/internal/logger"
	"github.com/alnah/go-md2hatena/internal/pipeline"
	"github.com/alnah/go-md2hatena/internal/yamlutil"
)

// Publisher orchestrates the Markdown to Hatena Blog pipeline.
type Publisher struct {
	cfg       publisherConfig
	renderer  *pipeline.Renderer
	extractor *pipeline.AssetExtractor
	client    EntryClient
	logger    logger.Logger
}

// New creates a Publisher. Credentials are optional: without them the
// publisher still renders and exports theme assets, and Publish fails with
// ErrConfiguration.
func New(opts ...Option) (*Publisher, error) {
	cfg := publisherConfig{
		timeout:      atompub.DefaultTimeout,
		theme:        pipeline.DefaultTheme,
		defaultDraft: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewNop()
	}
	if !pipeline.IsTheme(cfg.theme) {
		return nil, fmt.Errorf("%w: unknown theme %q", ErrConfiguration, cfg.theme)
	}

	renderer := pipeline.NewRenderer(
		pipeline.WithHighlighter(pipeline.NewChromaHighlighter(cfg.assetLoader)),
	)

	p := &Publisher{
		cfg:       cfg,
		renderer:  renderer,
		extractor: pipeline.NewAssetExtractor(renderer),
		client:    cfg.client,
		logger:    cfg.logger,
	}

	if p.client == nil && cfg.creds.RootEndpoint != "" {
		client, err := atompub.NewClient(cfg.creds,
			atompub.WithTransport(atompub.NewHTTPTransport(cfg.timeout)),
			atompub.WithLogger(cfg.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		p.client = client
	}

	return p, nil
}

// Theme returns the configured theme name.
func (p *Publisher) Theme() string {
	return p.cfg.theme
}

// Prepare reads the document at path and resolves its title, categories,
// draft state and member URI. Overrides win over the document.
func (p *Publisher) Prepare(path string, ov Overrides) (*Post, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.prepareContent(path, string(content), ov)
}

func (p *Publisher) prepareContent(path, content string, ov Overrides) (*Post, error) {
	m := frontmatter.Parse(content)
	if strings.TrimSpace(m.Body) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}
	if m.Err != nil {
		p.logger.Warn("ignoring invalid frontmatter",
			logger.String("file", path), logger.Error(m.Err))
	}

	post := &Post{
		Path:        path,
		Body:        m.Body,
		Frontmatter: m.Data,
		MatterErr:   m.Err,
		Title:       frontmatter.ExtractTitle(m.Data, m.Body, path),
		Categories:  frontmatter.ExtractCategories(m.Data),
		Draft:       frontmatter.ExtractDraft(m.Data, p.cfg.defaultDraft),
		MemberURI:   frontmatter.MemberURI(m.Data),
	}

	if ov.Title != "" {
		post.Title = ov.Title
	}
	if len(ov.Categories) > 0 {
		post.Categories = append([]string(nil), ov.Categories...)
	}
	if ov.Draft != nil {
		post.Draft = *ov.Draft
	}
	return post, nil
}

// Publish uploads embedded images, renders the body, creates or updates the
// entry and records the result in the document's frontmatter.
//
// When the entry was published but the frontmatter rewrite fails, the
// returned Result is non-nil and the error matches ErrMetadataUpdate.
func (p *Publisher) Publish(ctx context.Context, post *Post) (*Result, error) {
	if err := p.checkCredentials(); err != nil {
		return nil, err
	}

	log := p.logger.With(logger.String("file", post.Path))

	body, images := p.uploadImages(ctx, post)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := p.renderer.RenderBody(body, p.cfg.theme, pipeline.ModePublish)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", post.Path, err)
	}

	entry := atom.Entry{
		Title:      post.Title,
		Content:    content,
		Categories: post.Categories,
		Draft:      post.Draft,
	}

	var res atom.PublishResult
	if post.IsUpdate() {
		res, err = p.client.UpdateEntry(ctx, post.MemberURI, entry)
	} else {
		res, err = p.client.PostEntry(ctx, entry)
	}
	if err != nil {
		return nil, fmt.Errorf("publishing %q: %w", post.Title, err)
	}

	result := &Result{
		PublishResult: res,
		Updated:       post.IsUpdate(),
		Draft:         post.Draft,
		Images:        images,
	}
	log.Info("entry published",
		logger.String("title", post.Title),
		logger.Bool("draft", post.Draft),
		logger.Bool("updated", result.Updated),
		logger.String("edit_uri", res.EditURI),
		logger.String("public_url", res.PublicURL),
	)

	if err := p.recordResult(post, res); err != nil {
		log.Error("frontmatter update failed", logger.Error(err))
		return result, fmt.Errorf("%w: %w", ErrMetadataUpdate, err)
	}
	return result, nil
}

func (p *Publisher) checkCredentials() error {
	if p.cfg.client != nil {
		return nil
	}
	var missing []string
	if p.cfg.creds.RootEndpoint == "" {
		missing = append(missing, "root endpoint")
	}
	if p.cfg.creds.APIKey == "" {
		missing = append(missing, "API key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, " and "))
	}
	return nil
}

// recordResult re-reads the document so edits made while the request was in
// flight survive, then writes the publish outcome into its frontmatter.
func (p *Publisher) recordResult(post *Post, res atom.PublishResult) error {
	content, err := os.ReadFile(post.Path)
	if err != nil {
		return err
	}

	categories := make([]any, len(post.Categories))
	for i, c := range post.Categories {
		categories[i] = c
	}

	updates := yamlutil.Document{
		{Key: frontmatter.KeyTitle, Value: post.Title},
		{Key: frontmatter.KeyCategories, Value: categories},
	}
	if res.EditURI != "" {
		updates = append(updates, yamlutil.Item{Key: frontmatter.KeyMemberURI, Value: res.EditURI})
	}
	if res.PublicURL != "" {
		updates = append(updates, yamlutil.Item{Key: frontmatter.KeyURL, Value: res.PublicURL})
	}

	updated, err := frontmatter.Update(string(content), updates)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(post.Path, updated, 0o644)
}

// Render converts a whole document (frontmatter included) to a post body
// with the configured theme, without touching the network.
func (p *Publisher) Render(document string) (string, error) {
	return p.renderer.Render(document, p.cfg.theme)
}

// RenderFile renders the document at path and writes the HTML next to it,
// or to outPath when set. It returns the written path.
func (p *Publisher) RenderFile(path, outPath string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := p.Render(string(content))
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", path, err)
	}

	if outPath == "" {
		outPath, err = fileutil.ReplaceExtension(path, "html")
		if err != nil {
			return "", err
		}
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := fileutil.WriteFileAtomic(outPath, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// ExportStyles returns the CSS the theme needs in the blog design settings.
// An empty theme uses the configured one.
func (p *Publisher) ExportStyles(theme string) (string, error) {
	return p.extractor.ThemeStyles(p.themeOr(theme))
}

// ExportScripts returns the copy-button script wrapped in a module script
// element. An empty theme uses the configured one.
func (p *Publisher) ExportScripts(theme string) (string, error) {
	return p.extractor.ThemeScripts(p.themeOr(theme))
}

func (p *Publisher) themeOr(theme string) string {
	if theme == "" {
		return p.cfg.theme
	}
	return theme
}

// IsRemoteError reports whether err came from the blog service or the
// network rather than from local input.
func IsRemoteError(err error) bool {
	return errors.Is(err, atompub.ErrTransport) || errors.Is(err, atom.ErrWireFormat)
}
