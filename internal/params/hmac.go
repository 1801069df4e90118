package params

import (
	"net/http"
	"net/url"

	"github.com/DMarby/cdnstyle/internal/hmac"
)

// TokenParam is the query parameter carrying the derivative token
const TokenParam = "itok"

// Sign generates a derivative token for a URL path + query params and appends it to the URL
func Sign(h *hmac.HMAC, path string, query url.Values) (string, error) {
	query = cloneValues(query)
	query.Del(TokenParam)

	token, err := h.Create(path + BuildQuery(query))
	if err != nil {
		return "", err
	}

	query.Set(TokenParam, token)
	return path + BuildQuery(query), nil
}

// ValidateToken validates the URL path/query params of a request against the token in the itok query param
func ValidateToken(h *hmac.HMAC, r *http.Request) (bool, error) {
	query := r.URL.Query()

	token := query.Get(TokenParam)
	query.Del(TokenParam)

	return h.Validate(r.URL.Path+BuildQuery(query), token)
}

func cloneValues(v url.Values) url.Values {
	c := make(url.Values, len(v))
	for k, values := range v {
		c[k] = append([]string(nil), values...)
	}

	return c
}
