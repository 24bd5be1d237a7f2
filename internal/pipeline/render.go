package pipeline

import (
	"github.com/alnah/go-md2hatena/internal/frontmatter"
)

// Mode selects the final post-processing step of a render.
type Mode int

const (
	// ModePublish strips top-level <style>/<script> for a blog post body.
	ModePublish Mode = iota
	// ModeAssets keeps them so they can be harvested.
	ModeAssets
)

func (m Mode) String() string {
	switch m {
	case ModePublish:
		return "publish"
	case ModeAssets:
		return "assets"
	default:
		return "unknown"
	}
}

// Renderer runs the full Markdown to HTML pipeline.
type Renderer struct {
	normalizer  *Normalizer
	converter   HTMLConverter
	highlighter Highlighter
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithHighlighter replaces the chroma highlighter.
func WithHighlighter(h Highlighter) RendererOption {
	return func(r *Renderer) { r.highlighter = h }
}

// WithConverter replaces the goldmark converter.
func WithConverter(c HTMLConverter) RendererOption {
	return func(r *Renderer) { r.converter = c }
}

// NewRenderer creates a Renderer using goldmark and a ChromaHighlighter with
// the embedded frame assets unless overridden.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		normalizer: NewNormalizer(),
		converter:  NewGoldmarkConverter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.highlighter == nil {
		r.highlighter = NewChromaHighlighter(nil)
	}
	return r
}

// Render converts document to a blog post body for theme.
func (r *Renderer) Render(document, theme string) (string, error) {
	return r.RenderMode(document, theme, ModePublish)
}

// RenderMode converts document for theme and finishes according to mode.
// Output is byte-identical for identical inputs.
func (r *Renderer) RenderMode(document, theme string, mode Mode) (string, error) {
	_, body, _ := frontmatter.Split(document)
	return r.RenderBody(body, theme, mode)
}

// RenderBody is RenderMode for text already separated from its frontmatter.
// A leading "---" block in body is content, not metadata.
func (r *Renderer) RenderBody(body, theme string, mode Mode) (string, error) {
	body = r.normalizer.Normalize(body)

	fragment, err := r.converter.ToHTML(body)
	if err != nil {
		return "", err
	}

	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	root, err = r.highlighter.Highlight(root, HighlightOptions{Theme: theme, Scaffolding: true})
	if err != nil {
		return "", err
	}

	out, err := renderFragment(root)
	if err != nil {
		return "", err
	}

	if mode == ModePublish {
		out = StripTopLevelAssets(out)
	}
	return out, nil
}
