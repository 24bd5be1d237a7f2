// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Config files go through the strict struct decoders; frontmatter goes
// through the ordered Document helpers so unknown keys and their order
// survive a rewrite.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document is not a mapping")
)

// Document is a YAML mapping that keeps its key order.
type Document = yaml.MapSlice

// Item is one key/value pair of a Document.
type Item = yaml.MapItem

func validateSize(data []byte) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	return nil
}

func validateInput(data []byte, v any) error {
	if err := validateSize(data); err != nil {
		return err
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalDocument decodes a top-level mapping, keeping key order at every
// nesting level. A document that decodes to something other than a mapping
// (a scalar, a list) returns ErrNotMapping.
func UnmarshalDocument(data []byte) (Document, error) {
	if err := validateSize(data); err != nil {
		return nil, err
	}

	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}

	switch doc := raw.(type) {
	case yaml.MapSlice:
		return doc, nil
	case nil:
		return Document{}, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, raw)
	}
}

// MarshalDocument encodes doc in key order.
func MarshalDocument(doc Document) ([]byte, error) {
	if len(doc) == 0 {
		return []byte{}, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// Lookup returns the value stored under key and whether it was present.
func Lookup(doc Document, key string) (any, bool) {
	for _, item := range doc {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key in place, or appends the pair when the key
// is new. The returned Document must be used in place of doc.
func Set(doc Document, key string, value any) Document {
	for i, item := range doc {
		if k, ok := item.Key.(string); ok && k == key {
			doc[i].Value = value
			return doc
		}
	}
	return append(doc, Item{Key: key, Value: value})
}
