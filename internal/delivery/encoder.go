package delivery

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/DMarby/cdnstyle/internal/params"
	"github.com/DMarby/cdnstyle/internal/transform"
)

// Errors
var (
	ErrInvalidPath = errors.New("invalid asset path")
)

// DefaultBaseURL is the base URL of the Brandfolder CDN
const DefaultBaseURL = "https://cdn.bfldr.com"

// Encoder builds delivery service URLs from accumulated transform parameters
type Encoder struct {
	BaseURL string
	// DefaultFormat is the extension static raster images are delivered as, without the leading dot.
	// Leave empty to keep the source format.
	DefaultFormat string
	Formats       *FormatTable
}

// NewEncoder returns an encoder for the given base URL and default format
func NewEncoder(baseURL, defaultFormat string, formats *FormatTable) *Encoder {
	return &Encoder{
		BaseURL:       baseURL,
		DefaultFormat: normalizeExtension(defaultFormat),
		Formats:       formats,
	}
}

// URL returns the delivery URL for an asset path such as "SH123456/at/abc123/image.png".
//
// Hints are static parameters such as quality or format preferences; transform parameters override them,
// and query parameters already present on the asset path take precedence over both.
// URL has no side effects and returns the same result for the same input.
func (e *Encoder) URL(assetPath string, transformParams transform.Params, hints map[string]string) (string, error) {
	assetPath, rawQuery, _ := strings.Cut(assetPath, "?")
	assetPath = strings.TrimLeft(assetPath, "/")
	if assetPath == "" {
		return "", ErrInvalidPath
	}

	existing, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, err)
	}

	query := url.Values{}
	for k, v := range hints {
		query.Set(k, v)
	}

	for k, v := range transformParams {
		query.Set(k, v)
	}

	for k, v := range existing {
		query[k] = v
	}

	baseURL := e.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return strings.TrimRight(baseURL, "/") + "/" + e.convertExtension(assetPath) + params.BuildQuery(query), nil
}

// convertExtension replaces the extension of static raster images with the default format.
// Animated, vector and unknown formats are passed through unchanged.
func (e *Encoder) convertExtension(assetPath string) string {
	if e.DefaultFormat == "" || e.Formats == nil {
		return assetPath
	}

	ext := path.Ext(assetPath)
	if ext == "" || normalizeExtension(ext) == e.DefaultFormat {
		return assetPath
	}

	if class, ok := e.Formats.Class(ext); !ok || class != Raster {
		return assetPath
	}

	return strings.TrimSuffix(assetPath, ext) + "." + e.DefaultFormat
}
