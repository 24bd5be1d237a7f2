// Package wsse builds X-WSSE UsernameToken headers for AtomPub endpoints.
//
// A header is computed fresh for every request:
//
//	UsernameToken Username="u", PasswordDigest="...", Nonce="...", Created="..."
//
// The nonce is 20 random bytes rendered as the concatenation of their decimal
// values. That string is both the digest prefix and the value encoded into
// Nonce, so a service that decodes Nonce and recomputes
// SHA-1(nonce + created + secret) accepts the header.
package wsse

import (
	"crypto/rand"
	"crypto/sha1" // #nosec G505 -- SHA-1 is mandated by the WSSE UsernameToken profile
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NonceSize is the number of random bytes drawn per header.
const NonceSize = 20

// CreatedLayout renders timestamps as UTC with millisecond precision.
const CreatedLayout = "2006-01-02T15:04:05.000Z"

// Sentinel errors for header generation and parsing.
var (
	ErrEntropy        = errors.New("wsse: reading nonce entropy failed")
	ErrMalformedToken = errors.New("wsse: malformed UsernameToken")
)

// Token holds the four fields of a UsernameToken header.
type Token struct {
	Username       string
	PasswordDigest string
	Nonce          string
	Created        string
}

// String formats the token as an X-WSSE header value.
func (t Token) String() string {
	return fmt.Sprintf(`UsernameToken Username="%s", PasswordDigest="%s", Nonce="%s", Created="%s"`,
		t.Username, t.PasswordDigest, t.Nonce, t.Created)
}

// Verify recomputes the digest from the token's own nonce and timestamp and
// reports whether it matches secret. It does not check clock skew.
func (t Token) Verify(secret string) bool {
	nonce, err := base64.StdEncoding.DecodeString(t.Nonce)
	if err != nil {
		return false
	}
	return digest(string(nonce), t.Created, secret) == t.PasswordDigest
}

// Option configures a Generator.
type Option func(*Generator)

// WithEntropy replaces crypto/rand as the nonce source.
func WithEntropy(r io.Reader) Option {
	return func(g *Generator) { g.entropy = r }
}

// WithClock replaces time.Now as the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator produces UsernameToken headers. The zero value is not usable;
// create one with NewGenerator. A Generator holds no per-call state and is
// safe for concurrent use as long as its entropy reader is.
type Generator struct {
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator returns a Generator reading from crypto/rand and time.Now.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		entropy: rand.Reader,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Token builds a fresh token for username and secret. Empty values are not
// rejected here: the service answers 401, which is where that belongs.
func (g *Generator) Token(username, secret string) (Token, error) {
	raw := make([]byte, NonceSize)
	if _, err := io.ReadFull(g.entropy, raw); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrEntropy, err)
	}

	nonce := decimalString(raw)
	created := g.now().UTC().Format(CreatedLayout)

	return Token{
		Username:       username,
		PasswordDigest: digest(nonce, created, secret),
		Nonce:          base64.StdEncoding.EncodeToString([]byte(nonce)),
		Created:        created,
	}, nil
}

// Header is Token formatted as a header value.
func (g *Generator) Header(username, secret string) (string, error) {
	tok, err := g.Token(username, secret)
	if err != nil {
		return "", err
	}
	return tok.String(), nil
}

var defaultGenerator = NewGenerator()

// Generate builds a header with crypto/rand and the current time.
func Generate(username, secret string) (string, error) {
	return defaultGenerator.Header(username, secret)
}

var tokenPattern = regexp.MustCompile(
	`^UsernameToken Username="([^"]*)", PasswordDigest="([^"]*)", Nonce="([^"]*)", Created="([^"]*)"$`)

// Parse reads a header value produced by Token.String.
func Parse(header string) (Token, error) {
	m := tokenPattern.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return Token{}, ErrMalformedToken
	}
	return Token{Username: m[1], PasswordDigest: m[2], Nonce: m[3], Created: m[4]}, nil
}

// digest is base64(SHA-1(nonce + created + secret)) over UTF-8 bytes.
func digest(nonce, created, secret string) string {
	sum := sha1.Sum([]byte(nonce + created + secret)) // #nosec G401 -- protocol requirement
	return base64.StdEncoding.EncodeToString(sum[:])
}

// decimalString renders bytes as their concatenated decimal values,
// e.g. {1, 22, 255} -> "122255".
func decimalString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, v := range b {
		sb.WriteString(strconv.Itoa(int(v)))
	}
	return sb.String()
}
