package pipeline

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "github-dark"

// themes lists the accepted theme names in display order, each with the
// chroma style that renders it.
var themes = []struct {
	name   string
	chroma string
}{
	{"github-dark", "github-dark"},
	{"github-light", "github"},
	{"dracula", "dracula"},
	{"nord", "nord"},
	{"min-light", "vs"},
	{"min-dark", "native"},
}

// Themes returns the accepted theme names.
func Themes() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.name
	}
	return names
}

// IsTheme reports whether name is an accepted theme.
func IsTheme(name string) bool {
	for _, t := range themes {
		if t.name == name {
			return true
		}
	}
	return false
}

// themeStyle resolves a theme name to its chroma style. chroma's own lookup
// silently falls back to a default style; an unknown name is an error here.
func themeStyle(name string) (*chroma.Style, error) {
	for _, t := range themes {
		if t.name != name {
			continue
		}
		style, ok := styles.Registry[t.chroma]
		if !ok {
			return nil, fmt.Errorf("%w: %q (style %q not registered)", ErrUnknownTheme, name, t.chroma)
		}
		return style, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}
