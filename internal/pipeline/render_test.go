package pipeline

// Notes:
// - stubHighlighter emits fixed markup so stage ordering and mode handling
//   can be checked without depending on chroma's exact output.
// - The chroma-backed tests assert on stable structure (frame classes, the
//   chroma pre class) rather than token spans.

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const scenarioDocument = "# Title\n\nHello %%secret%% world [[Note|Click]].\n\n```js\nconsole.log(1)\n```\n"

// stubHighlighter replaces each <pre> with <div class="stub">text</div>, adds
// one top-level <style> when scaffolding is requested, and records what it saw.
type stubHighlighter struct {
	mu      sync.Mutex
	seen    []string
	options []HighlightOptions
}

func (s *stubHighlighter) Highlight(root *html.Node, opts HighlightOptions) (*html.Node, error) {
	s.mu.Lock()
	s.options = append(s.options, opts)
	s.mu.Unlock()

	blocks := findCodeBlocks(root)
	for i, b := range blocks {
		s.mu.Lock()
		s.seen = append(s.seen, b.language+":"+b.source)
		s.mu.Unlock()

		div := element(atom.Div, html.Attribute{Key: "class", Val: "stub"})
		div.AppendChild(textNode(b.source))
		b.pre.Parent.InsertBefore(div, b.pre)
		b.pre.Parent.RemoveChild(b.pre)

		if i == 0 && opts.Scaffolding {
			injectScaffolding(topLevelAncestor(root, div), ".stub{}", "stub()")
		}
	}
	return root, nil
}

// ---------------------------------------------------------------------------
// TestRenderer_Render - Publish mode with chroma
// ---------------------------------------------------------------------------

func TestRenderer_Render_Scenario(t *testing.T) {
	t.Parallel()

	out, err := NewRenderer().Render(scenarioDocument, "github-dark")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	for _, want := range []string{
		"<h1>Title</h1>",
		"Hello  world Click.",
		`class="code-frame"`,
		`data-language="js"`,
		`class="chroma"`,
		`data-code="console.log(1)"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	for _, unwanted := range []string{"%%", "[[", "]]", "<style", "<script"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output should not contain %q:\n%s", unwanted, out)
		}
	}
}

func TestRenderer_Render_Deterministic(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	first, err := r.Render(scenarioDocument, "nord")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	second, err := r.Render(scenarioDocument, "nord")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("two renders differ:\n%s\n---\n%s", first, second)
	}
}

func TestRenderer_Render_AllThemes(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	for _, theme := range Themes() {
		t.Run(theme, func(t *testing.T) {
			t.Parallel()

			if _, err := r.Render(scenarioDocument, theme); err != nil {
				t.Errorf("Render(%q) unexpected error: %v", theme, err)
			}
		})
	}
}

func TestRenderer_Render_UnknownTheme(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer().Render("no code here", "solarized-night")
	if !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want ErrRender", err)
	}
	if !errors.Is(err, ErrUnknownTheme) {
		t.Errorf("Render() error = %v, want ErrUnknownTheme", err)
	}
}

func TestRenderer_Render_Frontmatter(t *testing.T) {
	t.Parallel()

	doc := "---\ntitle: Secret Title\ntags: [a]\n---\nBody text\n"
	out, err := NewRenderer().Render(doc, DefaultTheme)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if strings.Contains(out, "Secret Title") || strings.Contains(out, "tags") {
		t.Errorf("frontmatter leaked into output:\n%s", out)
	}
	if strings.TrimSpace(out) != "<p>Body text</p>" {
		t.Errorf("Render() = %q, want body paragraph only", out)
	}
}

func TestRenderer_Render_RawHTMLCodeBlock(t *testing.T) {
	t.Parallel()

	doc := "<div class=\"wrap\">\n<pre><code class=\"language-go\">package main\n</code></pre>\n</div>\n"
	r := NewRenderer()

	out, err := r.Render(doc, DefaultTheme)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(out, `data-language="go"`) || !strings.Contains(out, `class="chroma"`) {
		t.Errorf("code inside raw HTML was not highlighted:\n%s", out)
	}
	if !strings.HasPrefix(out, `<div class="wrap">`) {
		t.Errorf("publish output should start with the raw div:\n%s", out)
	}

	assets, err := r.RenderMode(doc, DefaultTheme, ModeAssets)
	if err != nil {
		t.Fatalf("RenderMode() unexpected error: %v", err)
	}
	if !strings.HasPrefix(assets, "<style>") {
		t.Errorf("asset output should open with the scaffolding style:\n%s", assets)
	}
	if !strings.Contains(assets, `<script type="module">`) {
		t.Errorf("asset output missing module script:\n%s", assets)
	}
}

// ---------------------------------------------------------------------------
// TestRenderer_RenderMode - Stage ordering with a stub highlighter
// ---------------------------------------------------------------------------

func TestRenderer_RenderMode_Stub(t *testing.T) {
	t.Parallel()

	doc := "Intro [[a|b]]\n\n```py\nprint('%%x%%')\n```\n\n<section>\n<pre><code>raw</code></pre>\n</section>\n"

	tests := []struct {
		name      string
		mode      Mode
		wantStyle bool
	}{
		{"publish strips scaffolding", ModePublish, false},
		{"assets keeps scaffolding", ModeAssets, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubHighlighter{}
			out, err := NewRenderer(WithHighlighter(stub)).RenderMode(doc, "any", tt.mode)
			if err != nil {
				t.Fatalf("RenderMode() unexpected error: %v", err)
			}

			wantSeen := []string{"py:print('%%x%%')\n", ":raw"}
			if len(stub.seen) != len(wantSeen) {
				t.Fatalf("highlighter saw %v, want %v", stub.seen, wantSeen)
			}
			for i := range wantSeen {
				if stub.seen[i] != wantSeen[i] {
					t.Errorf("block %d = %q, want %q", i, stub.seen[i], wantSeen[i])
				}
			}
			if len(stub.options) != 1 || stub.options[0].Theme != "any" || !stub.options[0].Scaffolding {
				t.Errorf("options = %+v", stub.options)
			}

			if !strings.Contains(out, "Intro b") {
				t.Errorf("normalizer did not run before conversion:\n%s", out)
			}
			if got := strings.Contains(out, "<style>.stub{}</style>"); got != tt.wantStyle {
				t.Errorf("style present = %v, want %v:\n%s", got, tt.wantStyle, out)
			}
			if got := strings.Contains(out, `<script type="module">stub()</script>`); got != tt.wantStyle {
				t.Errorf("script present = %v, want %v:\n%s", got, tt.wantStyle, out)
			}
		})
	}
}

type failingConverter struct{}

func (failingConverter) ToHTML(string) (string, error) {
	return "", errors.Join(ErrRender, errors.New("boom"))
}

func TestRenderer_RenderMode_ConverterError(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithConverter(failingConverter{})).Render("x", DefaultTheme)
	if !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want ErrRender", err)
	}
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	if ModePublish.String() != "publish" || ModeAssets.String() != "assets" || Mode(9).String() != "unknown" {
		t.Error("Mode.String() returned unexpected names")
	}
}
