package pipeline

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have an end tag, so they do not open a nesting level.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// StripTopLevelAssets removes every <style> and <script> element that sits
// at the top level of an HTML fragment, together with its content. Nested
// ones are kept. Everything else is copied byte for byte.
func StripTopLevelAssets(fragment string) string {
	out, _, _ := scanTopLevelAssets(fragment)
	return out
}

// HarvestTopLevelAssets returns the text of the top-level <style> elements
// and of the top-level <script> elements, each joined with "\n" in document
// order.
func HarvestTopLevelAssets(fragment string) (css, js string) {
	_, styles, scripts := scanTopLevelAssets(fragment)
	return strings.Join(styles, "\n"), strings.Join(scripts, "\n")
}

// scanTopLevelAssets tokenizes fragment once, copying every token except
// top-level style and script elements, whose contents it collects instead.
func scanTopLevelAssets(fragment string) (rest string, styles, scripts []string) {
	var out strings.Builder
	out.Grow(len(fragment))

	z := html.NewTokenizer(strings.NewReader(fragment))
	depth := 0
	capturing := "" // tag name of the top-level element being removed
	var captured strings.Builder

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				// Unreadable input is passed through rather than half-filtered
				return fragment, nil, nil
			}
			break
		}

		if capturing != "" {
			switch tt {
			case html.TextToken:
				captured.Write(z.Raw())
			case html.EndTagToken:
				if name, _ := z.TagName(); string(name) == capturing {
					if capturing == "style" {
						styles = append(styles, captured.String())
					} else {
						scripts = append(scripts, captured.String())
					}
					captured.Reset()
					capturing = ""
				}
			}
			continue
		}

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if depth == 0 && (tag == "style" || tag == "script") {
				capturing = tag
				continue
			}
			out.Write(z.Raw())
			if !voidElements[tag] {
				depth++
			}
		case html.EndTagToken:
			out.Write(z.Raw())
			if depth > 0 {
				depth--
			}
		default:
			out.Write(z.Raw())
		}
	}

	// An unterminated element at the end still counts as harvested
	if capturing == "style" {
		styles = append(styles, captured.String())
	} else if capturing == "script" {
		scripts = append(scripts, captured.String())
	}

	return out.String(), styles, scripts
}
