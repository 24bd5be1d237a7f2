package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Protected regions are swapped for Private Use Area placeholders while the
// dialect rules run, then restored. The delimiters cannot collide with %%,
// [[ or ]] and pass through the regexes untouched.
const (
	protectStart = "\uE000"
	protectEnd   = "\uE001"
)

var (
	// %% ... %%, shortest match, may span lines
	commentPattern = regexp.MustCompile(`(?s)%%.*?%%`)

	// [[target]] or [[target|display]]
	wikiLinkPattern = regexp.MustCompile(`\[\[(?:[^|\]]*\|)?([^\]]+)\]\]`)

	placeholderPattern = regexp.MustCompile(protectStart + `(\d+)` + protectEnd)
)

// NormalizeText applies the dialect rules to every byte of text: comment
// spans are removed first, then wiki links are replaced by their display
// text (or target when there is none). Unterminated %% or [[ stay literal.
func NormalizeText(s string) string {
	if !strings.Contains(s, "%%") && !strings.Contains(s, "[[") {
		return s
	}
	s = commentPattern.ReplaceAllString(s, "")
	return wikiLinkPattern.ReplaceAllString(s, "$1")
}

// Normalizer applies NormalizeText to a Markdown document while leaving code
// spans, code blocks and raw HTML untouched.
type Normalizer struct {
	parser parser.Parser
}

// NewNormalizer creates a Normalizer that recognizes the same block and
// inline syntax as the renderer.
func NewNormalizer() *Normalizer {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	return &Normalizer{parser: md.Parser()}
}

// Normalize returns src with the dialect rules applied outside protected
// regions. A comment that encloses a code span still removes it.
func (n *Normalizer) Normalize(src string) string {
	if !strings.Contains(src, "%%") && !strings.Contains(src, "[[") {
		return src
	}

	source := []byte(src)
	doc := n.parser.Parse(text.NewReader(source))
	regions := protectedRegions(doc, source)
	if len(regions) == 0 {
		return NormalizeText(src)
	}

	masked, saved := maskRegions(src, regions)
	out := NormalizeText(masked)
	return placeholderPattern.ReplaceAllStringFunc(out, func(m string) string {
		idx, err := strconv.Atoi(m[len(protectStart) : len(m)-len(protectEnd)])
		if err != nil || idx >= len(saved) {
			return m
		}
		return saved[idx]
	})
}

// region is a half-open byte range [start, stop) of the source.
type region struct {
	start, stop int
}

// protectedRegions collects the source ranges of code and raw HTML nodes,
// sorted and merged.
func protectedRegions(doc ast.Node, source []byte) []region {
	var regions []region
	add := func(start, stop int) {
		if start < stop && stop <= len(source) {
			regions = append(regions, region{start, stop})
		}
	}
	addLines := func(lines *text.Segments) {
		if lines == nil || lines.Len() == 0 {
			return
		}
		add(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.CodeSpan:
			start, stop := -1, -1
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				t, ok := c.(*ast.Text)
				if !ok {
					continue
				}
				if start < 0 {
					start = t.Segment.Start
				}
				stop = t.Segment.Stop
			}
			add(start, stop)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if n.Info != nil {
				add(n.Info.Segment.Start, n.Info.Segment.Stop)
			}
			addLines(n.Lines())
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			addLines(n.Lines())
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			addLines(n.Lines())
			if n.HasClosure() {
				add(n.ClosureLine.Start, n.ClosureLine.Stop)
			}
			return ast.WalkSkipChildren, nil

		case *ast.RawHTML:
			addLines(n.Segments)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return mergeRegions(regions)
}

func mergeRegions(regions []region) []region {
	if len(regions) < 2 {
		return regions
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].start < regions[j].start })

	merged := regions[:1]
	for _, r := range regions[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.stop {
			if r.stop > last.stop {
				last.stop = r.stop
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// maskRegions replaces each region by a numbered placeholder and returns the
// original text of each region by index.
func maskRegions(src string, regions []region) (string, []string) {
	var sb strings.Builder
	sb.Grow(len(src))
	saved := make([]string, 0, len(regions))

	prev := 0
	for i, r := range regions {
		sb.WriteString(src[prev:r.start])
		sb.WriteString(protectStart)
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(protectEnd)
		saved = append(saved, src[r.start:r.stop])
		prev = r.stop
	}
	sb.WriteString(src[prev:])

	return sb.String(), saved
}
