package atom

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Link relations read from entry responses.
const (
	RelEdit      = "edit"
	RelAlternate = "alternate"
)

// PublishResult holds the locations returned for a created or updated
// entry. An empty field means the response had no such link.
type PublishResult struct {
	EditURI   string // member URI used for later updates
	PublicURL string // the post's public page
}

// Link is an Atom link element.
type Link struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Href string `xml:"href,attr"`
}

// entryResponse matches link children in any namespace.
type entryResponse struct {
	Links []Link `xml:"link"`
}

// imageResponse matches the service's hatena:syntax element. The name is
// matched locally because responses do not always declare the prefix.
type imageResponse struct {
	Syntax []string `xml:"syntax"`
}

// DecodeEntryResponse extracts the first edit and alternate links from an
// entry response. Missing links are not an error.
func DecodeEntryResponse(body string) (PublishResult, error) {
	var resp entryResponse
	if err := decode(body, &resp); err != nil {
		return PublishResult{}, err
	}

	var result PublishResult
	for _, l := range resp.Links {
		switch l.Rel {
		case RelEdit:
			if result.EditURI == "" {
				result.EditURI = l.Href
			}
		case RelAlternate:
			if result.PublicURL == "" {
				result.PublicURL = l.Href
			}
		}
	}
	return result, nil
}

// DecodeImageResponse returns the image identifier (for example
// "f:id:user:20240101120000p:image") from an upload response.
func DecodeImageResponse(body string) (string, error) {
	var resp imageResponse
	if err := decode(body, &resp); err != nil {
		return "", err
	}

	for _, s := range resp.Syntax {
		if id := strings.TrimSpace(s); id != "" {
			return id, nil
		}
	}
	return "", ErrMissingImageID
}

func decode(body string, v any) error {
	if err := xml.NewDecoder(strings.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrWireFormat, err)
	}
	return nil
}
