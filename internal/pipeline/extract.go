package pipeline

import (
	"fmt"
)

// canaryDocument is rendered only to make the highlighter emit its
// scaffolding.
const canaryDocument = "```js\nconsole.log(1)\n```\n"

// ThemeAssets is the stylesheet and script a theme needs outside of post
// bodies. JS is the bare script text.
type ThemeAssets struct {
	CSS string
	JS  string
}

// ScriptBlock returns JS wrapped in a module script element.
func (a ThemeAssets) ScriptBlock() string {
	return WrapModuleScript(a.JS)
}

// WrapModuleScript wraps JavaScript source for pasting into an HTML page.
func WrapModuleScript(js string) string {
	return "<script type=\"module\">\n" + js + "\n</script>"
}

// AssetExtractor derives a theme's CSS and JS from what the renderer emits.
type AssetExtractor struct {
	renderer *Renderer
}

// NewAssetExtractor creates an extractor over renderer.
func NewAssetExtractor(renderer *Renderer) *AssetExtractor {
	return &AssetExtractor{renderer: renderer}
}

// ThemeAssets renders the canary document in asset mode and harvests the
// top-level style and script text. Empty CSS fails with ErrNoStyles.
func (e *AssetExtractor) ThemeAssets(theme string) (ThemeAssets, error) {
	out, err := e.renderer.RenderMode(canaryDocument, theme, ModeAssets)
	if err != nil {
		return ThemeAssets{}, err
	}

	css, js := HarvestTopLevelAssets(out)
	if css == "" {
		return ThemeAssets{}, fmt.Errorf("%w: theme %q", ErrNoStyles, theme)
	}
	return ThemeAssets{CSS: css, JS: js}, nil
}

// ThemeStyles returns the theme CSS.
func (e *AssetExtractor) ThemeStyles(theme string) (string, error) {
	a, err := e.ThemeAssets(theme)
	if err != nil {
		return "", err
	}
	return a.CSS, nil
}

// ThemeScripts returns the theme JS wrapped in <script type="module">, ready
// to paste into the blog's head or footer HTML.
func (e *AssetExtractor) ThemeScripts(theme string) (string, error) {
	a, err := e.ThemeAssets(theme)
	if err != nil {
		return "", err
	}
	return a.ScriptBlock(), nil
}
