package md2hatena

import (
	"context"
	"time"

	"github.com/alnah/go-md2hatena/internal/assets"
	"github.com/alnah/go-md2hatena/internal/atom"
	"github.com/alnah/go-md2hatena/internal/atompub"
	"github.com/alnah/go-md2hatena/internal/logger"
	"github.com/alnah/go-md2hatena/internal/yamlutil"
)

// Post is a document read from disk with its publishing metadata resolved.
type Post struct {
	Path        string
	Body        string            // content after the frontmatter block
	Frontmatter yamlutil.Document // empty when absent or invalid
	MatterErr   error             // non-nil when the frontmatter is not valid YAML
	Title       string
	Categories  []string
	Draft       bool
	MemberURI   string // set when the post was published before
}

// IsUpdate reports whether publishing replaces an existing entry.
func (p *Post) IsUpdate() bool {
	return p.MemberURI != ""
}

// Overrides replace values extracted from the document. Zero values keep
// the extracted ones.
type Overrides struct {
	Title      string
	Categories []string
	Draft      *bool
}

// ImageUpload records one embed handled during Publish.
type ImageUpload struct {
	Embed string // the original ![[...]] text
	Path  string // resolved file, empty when not found
	ID    string // service identifier on success
	Err   error
}

// Result describes a publish.
type Result struct {
	atom.PublishResult
	Updated bool
	Draft   bool
	Images  []ImageUpload
}

// EntryClient is the remote side of Publish.
type EntryClient interface {
	PostEntry(ctx context.Context, e atom.Entry) (atom.PublishResult, error)
	UpdateEntry(ctx context.Context, memberURI string, e atom.Entry) (atom.PublishResult, error)
	UploadImage(ctx context.Context, img atom.Image) (string, error)
}

// Option configures a Publisher.
type Option func(*publisherConfig)

// publisherConfig holds internal configuration for Publisher.
type publisherConfig struct {
	creds        atompub.Credentials
	timeout      time.Duration
	theme        string
	defaultDraft bool
	imageRoot    string
	assetLoader  assets.Loader
	client       EntryClient
	logger       logger.Logger
}

// WithCredentials sets the AtomPub root endpoint and API key.
func WithCredentials(rootEndpoint, apiKey string) Option {
	return func(c *publisherConfig) {
		c.creds = atompub.Credentials{RootEndpoint: rootEndpoint, APIKey: apiKey}
	}
}

// WithTimeout sets the per-request timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2hatena: WithTimeout duration must be positive")
	}
	return func(c *publisherConfig) { c.timeout = d }
}

// WithTheme selects the highlighting theme.
func WithTheme(name string) Option {
	return func(c *publisherConfig) { c.theme = name }
}

// WithDefaultDraft sets the draft state used when a document does not say.
func WithDefaultDraft(draft bool) Option {
	return func(c *publisherConfig) { c.defaultDraft = draft }
}

// WithImageRoot adds a second directory to resolve image embeds against.
func WithImageRoot(dir string) Option {
	return func(c *publisherConfig) { c.imageRoot = dir }
}

// WithAssetLoader overrides the code-frame CSS and JS source.
func WithAssetLoader(l assets.Loader) Option {
	return func(c *publisherConfig) { c.assetLoader = l }
}

// WithClient replaces the AtomPub client built from the credentials.
func WithClient(client EntryClient) Option {
	return func(c *publisherConfig) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *publisherConfig) { c.logger = l }
}
