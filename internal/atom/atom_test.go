package atom

// Notes:
// - wantEntryDocument is the request body the blog service accepts for a
//   draft post; the encoder output is compared byte for byte.
// - sampleEntryResponse is trimmed from a real create response. Only the
//   link elements matter to the decoder.

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

const wantEntryDocument = `<?xml version="1.0" encoding="utf-8"?>
<entry xmlns="http://www.w3.org/2005/Atom" xmlns:app="http://www.w3.org/2007/app">
  <title>Tips &amp; Tricks</title>
  <content type="text/html">&lt;p class=&quot;x&quot;&gt;It&#x27;s &#x60;code&#x60;&lt;/p&gt;</content>
  <category term="a" />
  <category term="b" />
  <app:control>
    <app:draft>yes</app:draft>
  </app:control>
</entry>
`

const sampleEntryResponse = `<?xml version="1.0" encoding="utf-8"?>
<entry xmlns="http://www.w3.org/2005/Atom"
       xmlns:app="http://www.w3.org/2007/app">
  <id>tag:blog.hatena.ne.jp,2013:blog-alice-20000000000000-13574176438046791234</id>
  <link rel="edit" href="https://blog.hatena.ne.jp/alice/alice.hatenablog.com/atom/entry/13574176438046791234"/>
  <link rel="alternate" type="text/html" href="https://alice.hatenablog.com/entry/2024/03/01/120000"/>
  <author><name>alice</name></author>
  <title>Tips &amp; Tricks</title>
  <app:control>
    <app:draft>yes</app:draft>
  </app:control>
</entry>`

// ---------------------------------------------------------------------------
// TestEncodeEntry - Wire document shape
// ---------------------------------------------------------------------------

func TestEncodeEntry(t *testing.T) {
	t.Parallel()

	got := EncodeEntry(Entry{
		Title:      "Tips & Tricks",
		Content:    `<p class="x">It's ` + "`code`</p>",
		Categories: []string{"a", "b"},
		Draft:      true,
	})
	if got != wantEntryDocument {
		t.Errorf("EncodeEntry() =\n%s\nwant\n%s", got, wantEntryDocument)
	}
}

func TestEncodeEntry_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   Entry
		want    []string
		notWant []string
	}{
		{
			name:    "public post",
			entry:   Entry{Title: "t", Draft: false},
			want:    []string{"<app:draft>no</app:draft>"},
			notWant: []string{"<category"},
		},
		{
			name:  "duplicate categories keep order",
			entry: Entry{Categories: []string{"go", "go", "<x>"}},
			want: []string{
				"<category term=\"go\" />\n  <category term=\"go\" />\n  <category term=\"&lt;x&gt;\" />",
			},
		},
		{
			name:  "empty title",
			entry: Entry{},
			want:  []string{"<title></title>", `<content type="text/html"></content>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EncodeEntry(tt.entry)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("EncodeEntry() missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("EncodeEntry() should not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestEncodeEntry_Deterministic(t *testing.T) {
	t.Parallel()

	e := Entry{Title: "x", Content: "<p>y</p>", Categories: []string{"c"}}
	if EncodeEntry(e) != EncodeEntry(e) {
		t.Error("EncodeEntry() is not byte-stable")
	}
}

// The escaped document must be well-formed and yield the original HTML
// back to an XML reader.
func TestEncodeEntry_WellFormed(t *testing.T) {
	t.Parallel()

	html := `<pre><code>if a < b && c > "d" { 'e' }</code></pre>`
	doc := EncodeEntry(Entry{Title: `"quoted" & <tag>`, Content: html, Categories: []string{"a&b"}})

	var parsed struct {
		Title   string `xml:"title"`
		Content struct {
			Type string `xml:"type,attr"`
			Body string `xml:",chardata"`
		} `xml:"content"`
		Categories []struct {
			Term string `xml:"term,attr"`
		} `xml:"category"`
		Draft string `xml:"control>draft"`
	}
	if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("encoded entry is not well-formed: %v\n%s", err, doc)
	}

	if parsed.Title != `"quoted" & <tag>` {
		t.Errorf("title = %q", parsed.Title)
	}
	if parsed.Content.Type != "text/html" || parsed.Content.Body != html {
		t.Errorf("content = %+v", parsed.Content)
	}
	if len(parsed.Categories) != 1 || parsed.Categories[0].Term != "a&b" {
		t.Errorf("categories = %+v", parsed.Categories)
	}
	if parsed.Draft != "no" {
		t.Errorf("draft = %q, want no", parsed.Draft)
	}
}

// ---------------------------------------------------------------------------
// TestDecodeEntryResponse - Link relations
// ---------------------------------------------------------------------------

func TestDecodeEntryResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want PublishResult
	}{
		{
			name: "edit and alternate",
			body: sampleEntryResponse,
			want: PublishResult{
				EditURI:   "https://blog.hatena.ne.jp/alice/alice.hatenablog.com/atom/entry/13574176438046791234",
				PublicURL: "https://alice.hatenablog.com/entry/2024/03/01/120000",
			},
		},
		{
			name: "missing alternate",
			body: `<entry xmlns="http://www.w3.org/2005/Atom"><link rel="edit" href="https://e/1"/></entry>`,
			want: PublishResult{EditURI: "https://e/1"},
		},
		{
			name: "no links",
			body: `<entry xmlns="http://www.w3.org/2005/Atom"><title>x</title></entry>`,
			want: PublishResult{},
		},
		{
			name: "first link of each relation wins",
			body: `<entry><link rel="alternate" href="a1"/><link rel="edit" href="e1"/>` +
				`<link rel="edit" href="e2"/><link rel="alternate" href="a2"/></entry>`,
			want: PublishResult{EditURI: "e1", PublicURL: "a1"},
		},
		{
			name: "other relations ignored",
			body: `<entry><link rel="self" href="s"/><link href="norel"/></entry>`,
			want: PublishResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeEntryResponse(tt.body)
			if err != nil {
				t.Fatalf("DecodeEntryResponse() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeEntryResponse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeEntryResponse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"plain text", "Unauthorized"},
		{"truncated", `<entry><link rel="edit" href="x"/>`},
		{"mismatched tags", `<entry><title>x</entry></title>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeEntryResponse(tt.body)
			if !errors.Is(err, ErrWireFormat) {
				t.Errorf("DecodeEntryResponse(%q) error = %v, want ErrWireFormat", tt.body, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEncodeImage / TestDecodeImageResponse - Photo upload
// ---------------------------------------------------------------------------

func TestEncodeImage(t *testing.T) {
	t.Parallel()

	got := EncodeImage(Image{Filename: "a&b.png", MIMEType: "image/png", Data: []byte("PNG")})

	want := `<?xml version="1.0" encoding="utf-8"?>
<entry xmlns="http://purl.org/atom/ns#" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:subject>Hatena Blog</dc:subject>
  <title>a&amp;b.png</title>
  <content mode="base64" type="image/png">UE5H</content>
</entry>
`
	if got != want {
		t.Errorf("EncodeImage() =\n%s\nwant\n%s", got, want)
	}
}

func TestDecodeImageResponse(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0" encoding="utf-8"?>
<entry xmlns="http://purl.org/atom/ns#" xmlns:hatena="http://www.hatena.ne.jp/info/xmlns#">
  <title>diagram.png</title>
  <hatena:imageurl>https://cdn-ak.f.st-hatena.com/images/fotolife/a/alice/20240301/20240301120000.png</hatena:imageurl>
  <hatena:syntax>f:id:alice:20240301120000p:image</hatena:syntax>
</entry>`

	got, err := DecodeImageResponse(body)
	if err != nil {
		t.Fatalf("DecodeImageResponse() unexpected error: %v", err)
	}
	if got != "f:id:alice:20240301120000p:image" {
		t.Errorf("DecodeImageResponse() = %q", got)
	}
}

func TestDecodeImageResponse_UndeclaredPrefix(t *testing.T) {
	t.Parallel()

	got, err := DecodeImageResponse(`<entry><hatena:syntax> f:id:bob:1p:image </hatena:syntax></entry>`)
	if err != nil {
		t.Fatalf("DecodeImageResponse() unexpected error: %v", err)
	}
	if got != "f:id:bob:1p:image" {
		t.Errorf("DecodeImageResponse() = %q", got)
	}
}

func TestDecodeImageResponse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"malformed", "<entry>", ErrWireFormat},
		{"no identifier", `<entry><title>x</title></entry>`, ErrMissingImageID},
		{"blank identifier", `<entry><hatena:syntax>  </hatena:syntax></entry>`, ErrMissingImageID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeImageResponse(tt.body)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeImageResponse() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrWireFormat) {
				t.Errorf("DecodeImageResponse() error = %v, want ErrWireFormat", err)
			}
		})
	}
}
