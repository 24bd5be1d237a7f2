// Package atompub talks to the blog's AtomPub endpoints. Every request is
// signed with a fresh WSSE header; nothing is retried.
package atompub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request, upload included.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 << 20

// maxErrorBody is how much of a failed response ends up in the error.
const maxErrorBody = 512

// ErrTransport is returned for network failures and non-2xx responses.
var ErrTransport = errors.New("transport failed")

// ErrUnauthorized is returned for 401 and 403 responses. It matches
// ErrTransport.
var ErrUnauthorized = fmt.Errorf("%w: credentials rejected", ErrTransport)

// Request is a single outgoing call.
type Request struct {
	URL         string
	Method      string
	ContentType string
	Headers     map[string]string
	Body        string
}

// Response is what came back.
type Response struct {
	Status int
	Text   string
}

// Transport executes requests. Implementations decide status handling;
// HTTPTransport treats anything outside 2xx as ErrTransport.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// HTTPTransport is a Transport over net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with the given timeout. A zero
// timeout means DefaultTimeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// Do sends req and returns the response text.
func (t *HTTPTransport) Do(ctx context.Context, req Request) (Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader([]byte(req.Body)))
	if err != nil {
		return Response{}, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Response{}, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	out := Response{Status: resp.StatusCode, Text: string(body)}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		sentinel := ErrTransport
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			sentinel = ErrUnauthorized
		}
		return out, fmt.Errorf("%w: %s %s returned %d: %s",
			sentinel, req.Method, req.URL, resp.StatusCode, truncate(out.Text, maxErrorBody))
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Transport = (*HTTPTransport)(nil)
