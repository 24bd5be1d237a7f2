package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var closingScriptTag = regexp.MustCompile(`(?i)</(script)`)

// injectScaffolding inserts a <style> and a module <script> as siblings
// immediately before anchor, which must be a top-level node. Empty CSS or JS
// produces no element for that half.
func injectScaffolding(anchor *html.Node, css, js string) {
	parent := anchor.Parent
	if parent == nil {
		return
	}

	if css != "" {
		style := element(atom.Style)
		style.AppendChild(textNode(sanitizeCSS(css)))
		parent.InsertBefore(style, anchor)
	}

	if js != "" {
		script := element(atom.Script, html.Attribute{Key: "type", Val: "module"})
		script.AppendChild(textNode(sanitizeScript(js)))
		parent.InsertBefore(script, anchor)
	}
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript escapes closing script tags inside JavaScript source. Only
// the tag sequence is touched since a bare "</" can be valid code.
func sanitizeScript(js string) string {
	return closingScriptTag.ReplaceAllString(js, `<\/$1`)
}
