package asset

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Scheme is the uri scheme of Brandfolder assets
const Scheme = "bf"

// Errors
var (
	ErrInvalidURI = errors.New("invalid asset uri")
)

// URI identifies a Brandfolder attachment, optionally rendered through an image style.
//
// Plain uris look like "bf://SH123456/at/abc123-echvmo-7qf0za/my_image.jpg" and
// styled uris like "bf://styles/thumbnail/bf/SH123456/at/abc123-echvmo-7qf0za/my_image.jpg".
type URI struct {
	Style        string
	Brandfolder  string
	AttachmentID string
	Filename     string
	RawQuery     string
}

// Parse parses a Brandfolder asset uri
func Parse(s string) (*URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURI, err)
	}

	if u.Scheme != Scheme {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURI, u.Scheme)
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	uri := &URI{
		Brandfolder: u.Host,
		RawQuery:    u.RawQuery,
	}

	if u.Host == "styles" {
		// styles/{style}/bf/{brandfolder}/at/{attachment}/{filename}
		if len(segments) < 3 || segments[0] == "" || segments[1] != Scheme {
			return nil, fmt.Errorf("%w: malformed style path %q", ErrInvalidURI, s)
		}

		uri.Style = segments[0]
		uri.Brandfolder = segments[2]
		segments = segments[3:]
	}

	// at/{attachment}/{filename}
	if uri.Brandfolder == "" || len(segments) < 3 || segments[0] != "at" || segments[1] == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURI, s)
	}

	uri.AttachmentID = segments[1]
	uri.Filename = strings.Join(segments[2:], "/")
	if uri.Filename == "" {
		return nil, fmt.Errorf("%w: missing filename in %q", ErrInvalidURI, s)
	}

	return uri, nil
}

// Path returns the path of the attachment on the delivery service, including any query
func (u *URI) Path() string {
	p := fmt.Sprintf("%s/at/%s/%s", url.PathEscape(u.Brandfolder), url.PathEscape(u.AttachmentID), escapeFilename(u.Filename))
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}

	return p
}

// Extension returns the lowercased file extension of the filename, without the leading dot
func (u *URI) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(u.Filename), "."))
}

// Unstyled returns a copy of the uri without the image style
func (u *URI) Unstyled() *URI {
	c := *u
	c.Style = ""
	return &c
}

// WithStyle returns a copy of the uri rendered through the given image style
func (u *URI) WithStyle(style string) *URI {
	c := *u
	c.Style = style
	return &c
}

func (u *URI) String() string {
	if u.Style != "" {
		return fmt.Sprintf("%s://styles/%s/%s/%s", Scheme, url.PathEscape(u.Style), Scheme, u.Path())
	}

	return fmt.Sprintf("%s://%s", Scheme, u.Path())
}

func escapeFilename(filename string) string {
	segments := strings.Split(filename, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}
