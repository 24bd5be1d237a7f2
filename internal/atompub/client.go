package atompub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/alnah/go-md2hatena/internal/atom"
	"github.com/alnah/go-md2hatena/internal/logger"
	"github.com/alnah/go-md2hatena/internal/wsse"
)

// Wire constants.
const (
	HeaderWSSE       = "X-WSSE"
	ContentTypeXML   = "application/xml"
	ImageEndpoint    = "https://f.hatena.ne.jp/atom/post"
	imageAcceptValue = "application/x.atom+xml, application/xml, text/xml, */*"
)

// ErrNoUserID is returned when the root endpoint does not name a user.
var ErrNoUserID = errors.New("root endpoint has no user id")

var userIDPattern = regexp.MustCompile(`blog\.hatena\.ne\.jp/([^/]+)`)

// UserID extracts the account name from a root endpoint such as
// https://blog.hatena.ne.jp/alice/alice.hatenablog.com/atom.
func UserID(rootEndpoint string) (string, error) {
	m := userIDPattern.FindStringSubmatch(rootEndpoint)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrNoUserID, rootEndpoint)
	}
	return m[1], nil
}

// Credentials identify the blog account.
type Credentials struct {
	RootEndpoint string
	APIKey       string
}

// Client issues signed AtomPub requests.
type Client struct {
	rootEndpoint  string
	imageEndpoint string
	username      string
	apiKey        string
	transport     Transport
	signer        *wsse.Generator
	logger        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithSigner replaces the WSSE generator.
func WithSigner(g *wsse.Generator) Option {
	return func(c *Client) { c.signer = g }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithImageEndpoint overrides the photo upload URL.
func WithImageEndpoint(url string) Option {
	return func(c *Client) { c.imageEndpoint = url }
}

// NewClient creates a client for the account in creds.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	username, err := UserID(creds.RootEndpoint)
	if err != nil {
		return nil, err
	}

	c := &Client{
		rootEndpoint:  strings.TrimRight(creds.RootEndpoint, "/"),
		imageEndpoint: ImageEndpoint,
		username:      username,
		apiKey:        creds.APIKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(DefaultTimeout)
	}
	if c.signer == nil {
		c.signer = wsse.NewGenerator()
	}
	if c.logger == nil {
		c.logger = logger.NewNop()
	}
	return c, nil
}

// Username returns the account name derived from the root endpoint.
func (c *Client) Username() string {
	return c.username
}

// EntryCollection returns the URL new entries are posted to.
func (c *Client) EntryCollection() string {
	return c.rootEndpoint + "/entry"
}

// PostEntry creates a new entry.
func (c *Client) PostEntry(ctx context.Context, e atom.Entry) (atom.PublishResult, error) {
	return c.sendEntry(ctx, http.MethodPost, c.EntryCollection(), e)
}

// UpdateEntry replaces the entry at memberURI.
func (c *Client) UpdateEntry(ctx context.Context, memberURI string, e atom.Entry) (atom.PublishResult, error) {
	return c.sendEntry(ctx, http.MethodPut, memberURI, e)
}

func (c *Client) sendEntry(ctx context.Context, method, url string, e atom.Entry) (atom.PublishResult, error) {
	resp, err := c.do(ctx, Request{
		URL:         url,
		Method:      method,
		ContentType: ContentTypeXML,
		Body:        atom.EncodeEntry(e),
	})
	if err != nil {
		return atom.PublishResult{}, err
	}

	result, err := atom.DecodeEntryResponse(resp.Text)
	if err != nil {
		return atom.PublishResult{}, err
	}
	c.logger.Debug("entry response decoded",
		logger.String("edit", result.EditURI),
		logger.String("alternate", result.PublicURL))
	return result, nil
}

// UploadImage posts img to the photo service and returns its identifier.
func (c *Client) UploadImage(ctx context.Context, img atom.Image) (string, error) {
	resp, err := c.do(ctx, Request{
		URL:         c.imageEndpoint,
		Method:      http.MethodPost,
		ContentType: ContentTypeXML,
		Headers:     map[string]string{"Accept": imageAcceptValue},
		Body:        atom.EncodeImage(img),
	})
	if err != nil {
		return "", err
	}
	return atom.DecodeImageResponse(resp.Text)
}

// do signs and sends req. The header is generated per call so every
// request carries a fresh nonce.
func (c *Client) do(ctx context.Context, req Request) (Response, error) {
	header, err := c.signer.Header(c.username, c.apiKey)
	if err != nil {
		return Response{}, fmt.Errorf("sign request: %w", err)
	}

	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[HeaderWSSE] = header
	req.Headers = headers

	c.logger.Info("sending request", logger.String("method", req.Method), logger.String("url", req.URL))

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		c.logger.Warn("request failed",
			logger.String("method", req.Method),
			logger.String("url", req.URL),
			logger.Int("status", resp.Status))
		return resp, err
	}
	c.logger.Debug("request done", logger.String("url", req.URL), logger.Int("status", resp.Status))
	return resp, nil
}
