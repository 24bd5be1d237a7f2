// Package frontmatter reads and rewrites the YAML block at the top of a
// Markdown document.
//
// A block starts with a "---" line on the very first line and ends at the
// next "---" line. Everything after the closing line is the body.
package frontmatter

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-md2hatena/internal/yamlutil"
)

// Keys written back after a successful publish.
const (
	KeyTitle      = "title"
	KeyCategories = "categories"
	KeyTags       = "tags"
	KeyDraft      = "draft"
	KeyMemberURI  = "hatena-member-uri"
	KeyURL        = "hatena-url"
)

// ErrInvalidFrontmatter is returned by Update when the existing block is not
// a YAML mapping. Rewriting it would drop the user's metadata.
var ErrInvalidFrontmatter = errors.New("frontmatter: existing block is not valid YAML")

var (
	blockPattern = regexp.MustCompile(`\A---\r?\n(?:([\s\S]*?)\r?\n)?---[ \t]*(?:\r?\n|\z)`)
	h1Pattern    = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
)

// Matter is a document split into its metadata and body.
type Matter struct {
	Data  yamlutil.Document // empty when the block is missing or invalid
	Body  string
	Found bool  // a delimited block was present
	Err   error // YAML error for a present but unreadable block
}

// Split separates the raw YAML text from the body. When no block is present,
// raw is empty and body is content unchanged.
func Split(content string) (raw, body string, found bool) {
	loc := blockPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", content, false
	}
	if loc[2] >= 0 {
		raw = content[loc[2]:loc[3]]
	}
	return raw, content[loc[1]:], true
}

// Parse splits content and decodes the block. Invalid YAML yields empty Data
// with Err set; it never fails outright.
func Parse(content string) Matter {
	raw, body, found := Split(content)
	m := Matter{Data: yamlutil.Document{}, Body: body, Found: found}
	if strings.TrimSpace(raw) == "" {
		return m
	}

	data, err := yamlutil.UnmarshalDocument([]byte(raw))
	if err != nil {
		m.Err = err
		return m
	}
	m.Data = data
	return m
}

// Update merges updates into the document's frontmatter, replacing existing
// keys in place and appending new ones, and returns the rewritten document.
// A document without a block gets one.
func Update(content string, updates yamlutil.Document) (string, error) {
	m := Parse(content)
	if m.Err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, m.Err)
	}

	data := m.Data
	for _, item := range updates {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		data = yamlutil.Set(data, key, item.Value)
	}

	encoded, err := yamlutil.MarshalDocument(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(encoded)
	if len(encoded) > 0 && encoded[len(encoded)-1] != '\n' {
		sb.WriteByte('\n')
	}
	sb.WriteString("---\n")
	sb.WriteString(m.Body)
	return sb.String(), nil
}

// ExtractTitle picks the post title: the title key, else the first level-one
// heading of body, else the file name without its .md extension.
func ExtractTitle(data yamlutil.Document, body, filename string) string {
	if v, ok := yamlutil.Lookup(data, KeyTitle); ok {
		if s := scalarString(v); s != "" {
			return s
		}
	}

	if m := h1Pattern.FindStringSubmatch(body); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s
		}
	}

	return strings.TrimSuffix(filepath.Base(filename), ".md")
}

// ExtractCategories returns the categories list, else the tags list, else
// an empty slice. Order and duplicates are preserved.
func ExtractCategories(data yamlutil.Document) []string {
	for _, key := range []string{KeyCategories, KeyTags} {
		v, ok := yamlutil.Lookup(data, key)
		if !ok {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// ExtractDraft reads the draft key, falling back when it is absent or not a
// recognizable boolean.
func ExtractDraft(data yamlutil.Document, fallback bool) bool {
	v, ok := yamlutil.Lookup(data, KeyDraft)
	if !ok {
		return fallback
	}

	switch d := v.(type) {
	case bool:
		return d
	case string:
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		}
		if b, err := strconv.ParseBool(d); err == nil {
			return b
		}
	}
	return fallback
}

// MemberURI returns the stored edit location, or "" for a post that was
// never published.
func MemberURI(data yamlutil.Document) string {
	v, ok := yamlutil.Lookup(data, KeyMemberURI)
	if !ok {
		return ""
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case []any, yamlutil.Document, map[string]any:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
