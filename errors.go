package md2hatena

import "errors"

// Sentinel errors for publishing.
var (
	// ErrConfiguration reports missing or invalid credentials, endpoint or
	// theme, detected before any request is made.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrMetadataUpdate reports a partial success: the entry was published
	// but the local frontmatter could not be rewritten.
	ErrMetadataUpdate = errors.New("entry published but frontmatter update failed")

	// ErrEmptyDocument is returned when a document has no body to publish.
	ErrEmptyDocument = errors.New("document body is empty")

	// ErrImageNotFound is recorded for embeds that resolve to no file.
	ErrImageNotFound = errors.New("embedded image not found")

	// ErrNotImage is recorded for embeds whose content is not an image.
	ErrNotImage = errors.New("embed is not an image")
)
