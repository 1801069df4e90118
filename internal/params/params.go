package params

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
)

// Errors
var (
	ErrInvalidStyle = fmt.Errorf("Invalid style")
	ErrInvalidURI   = fmt.Errorf("Invalid uri")
)

var styleName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Params contains the parameters of a derivative request
type Params struct {
	Style string
	URI   string
}

// GetParams parses the style and asset uri from the path parameters of a derivative request
func GetParams(r *http.Request) (*Params, error) {
	vars := mux.Vars(r)

	style, err := getStyle(vars["style"])
	if err != nil {
		return nil, err
	}

	brandfolder, attachment, filename := vars["brandfolder"], vars["attachment"], vars["filename"]
	if brandfolder == "" || attachment == "" || filename == "" {
		return nil, ErrInvalidURI
	}

	uri := fmt.Sprintf("bf://%s/at/%s/%s", brandfolder, attachment, filename)

	// Keep any other query params, they're passed on to the delivery service
	query := r.URL.Query()
	query.Del(TokenParam)
	uri += BuildQuery(query)

	return &Params{
		Style: style,
		URI:   uri,
	}, nil
}

// GetQueryParams parses the style and asset uri from the style and uri query parameters.
// The style may be omitted for styled uris.
func GetQueryParams(r *http.Request) (*Params, error) {
	query := r.URL.Query()

	style := query.Get("style")
	if style != "" {
		if _, err := getStyle(style); err != nil {
			return nil, err
		}
	}

	uri := strings.TrimSpace(query.Get("uri"))
	if uri == "" {
		return nil, ErrInvalidURI
	}

	return &Params{
		Style: style,
		URI:   uri,
	}, nil
}

func getStyle(style string) (string, error) {
	if !styleName.MatchString(style) {
		return "", ErrInvalidStyle
	}

	return style, nil
}
