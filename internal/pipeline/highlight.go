package pipeline

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2hatena/internal/assets"
)

// HighlightOptions controls one highlighting pass.
type HighlightOptions struct {
	Theme string

	// Scaffolding inserts the shared <style> and <script> elements before the
	// first code frame. Set for whole documents, unset for fragments that are
	// embedded somewhere that already carries them.
	Scaffolding bool
}

// Highlighter rewrites the code blocks of an HTML tree. Implementations may
// modify root in place; the returned node is the tree to serialize.
type Highlighter interface {
	Highlight(root *html.Node, opts HighlightOptions) (*html.Node, error)
}

// CSS classes emitted around each code block.
const (
	frameClass    = "code-frame"
	languageClass = "code-frame-language"
	copyClass     = "code-frame-copy"
)

// ChromaHighlighter renders code blocks with chroma using CSS classes, wraps
// each one in a <figure class="code-frame"> with a language label and a copy
// button, and emits the theme CSS plus the copy script once per document.
type ChromaHighlighter struct {
	assets    assets.Loader
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter reading frame assets from
// loader. A nil loader uses the embedded assets.
func NewChromaHighlighter(loader assets.Loader) *ChromaHighlighter {
	if loader == nil {
		loader = assets.Builtin()
	}
	return &ChromaHighlighter{
		assets:    loader,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// codeBlock is a <pre><code> pair found in the tree.
type codeBlock struct {
	pre      *html.Node
	language string
	source   string
}

// Highlight replaces every code block below root. The theme is resolved
// first, so an unknown theme fails even for documents without code.
func (h *ChromaHighlighter) Highlight(root *html.Node, opts HighlightOptions) (*html.Node, error) {
	style, err := themeStyle(opts.Theme)
	if err != nil {
		return nil, err
	}

	blocks := findCodeBlocks(root)
	for i, block := range blocks {
		frame, err := h.frame(block, style)
		if err != nil {
			return nil, err
		}

		parent := block.pre.Parent
		parent.InsertBefore(frame, block.pre)
		parent.RemoveChild(block.pre)

		if i == 0 && opts.Scaffolding {
			css, js, err := h.scaffolding(style)
			if err != nil {
				return nil, err
			}
			if anchor := topLevelAncestor(root, frame); anchor != nil {
				injectScaffolding(anchor, css, js)
			}
		}
	}

	return root, nil
}

func (h *ChromaHighlighter) frame(block codeBlock, style *chroma.Style) (*html.Node, error) {
	lexer := lexers.Get(block.language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, block.source)
	if err != nil {
		return nil, fmt.Errorf("%w: tokenizing %s block: %v", ErrRender, languageLabel(block.language), err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, style, iterator); err != nil {
		return nil, fmt.Errorf("%w: formatting %s block: %v", ErrRender, languageLabel(block.language), err)
	}

	highlighted, err := parseFragment(buf.String())
	if err != nil {
		return nil, err
	}

	label := languageLabel(block.language)
	figure := element(atom.Figure,
		html.Attribute{Key: "class", Val: frameClass},
		html.Attribute{Key: "data-language", Val: label},
	)

	caption := element(atom.Figcaption)
	lang := element(atom.Span, html.Attribute{Key: "class", Val: languageClass})
	lang.AppendChild(textNode(label))
	button := element(atom.Button,
		html.Attribute{Key: "type", Val: "button"},
		html.Attribute{Key: "class", Val: copyClass},
		html.Attribute{Key: "data-code", Val: strings.TrimSuffix(block.source, "\n")},
	)
	button.AppendChild(textNode("Copy"))
	caption.AppendChild(lang)
	caption.AppendChild(button)
	figure.AppendChild(caption)

	for c := highlighted.FirstChild; c != nil; {
		next := c.NextSibling
		highlighted.RemoveChild(c)
		figure.AppendChild(c)
		c = next
	}

	return figure, nil
}

// scaffolding returns the CSS (frame layout followed by the theme's token
// colors) and the copy-button script.
func (h *ChromaHighlighter) scaffolding(style *chroma.Style) (css, js string, err error) {
	frameCSS, err := h.assets.Load(assets.Style, assets.CodeFrameStyle)
	if err != nil {
		return "", "", fmt.Errorf("%w: loading frame style: %v", ErrRender, err)
	}

	var themeCSS strings.Builder
	if err := h.formatter.WriteCSS(&themeCSS, style); err != nil {
		return "", "", fmt.Errorf("%w: writing theme css: %v", ErrRender, err)
	}

	js, err = h.assets.Load(assets.Script, assets.CopyButtonScript)
	if err != nil {
		return "", "", fmt.Errorf("%w: loading copy script: %v", ErrRender, err)
	}

	css = strings.TrimRight(frameCSS, "\n") + "\n" + themeCSS.String()
	return css, strings.TrimRight(js, "\n"), nil
}

// findCodeBlocks returns the <pre> elements whose only element child is a
// <code>, in document order. Matched blocks are not searched further.
func findCodeBlocks(root *html.Node) []codeBlock {
	var blocks []codeBlock
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
			if code := soleCodeChild(n); code != nil {
				blocks = append(blocks, codeBlock{
					pre:      n,
					language: blockLanguage(n, code),
					source:   textContent(code),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return blocks
}

func soleCodeChild(pre *html.Node) *html.Node {
	var code *html.Node
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if c.DataAtom != atom.Code || code != nil {
				return nil
			}
			code = c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return code
}

// blockLanguage reads a "language-xxx" class from the code element, then
// from the pre element.
func blockLanguage(pre, code *html.Node) string {
	for _, n := range []*html.Node{code, pre} {
		for _, class := range strings.Fields(attr(n, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok && lang != "" {
				return strings.ToLower(lang)
			}
		}
	}
	return ""
}

func languageLabel(lang string) string {
	if lang == "" {
		return "text"
	}
	return lang
}

var _ Highlighter = (*ChromaHighlighter)(nil)
