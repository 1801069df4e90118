package params

import (
	"net/url"
	"sort"
	"strings"
)

// Utilities for building a URL with query params

// BuildQuery builds a query string, including the leading "?", for the given values.
// Keys are sorted so the same values always produce the same string.
// It differs from the stdlib url.Values.Encode in that it encodes query parameters with an empty value as "?key" instead of "?key="
func BuildQuery(v url.Values) string {
	var buf strings.Builder

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		values := v[key]
		if len(values) == 0 {
			values = []string{""}
		}

		for _, value := range values {
			if value != "" {
				addQueryParam(&buf, url.QueryEscape(key)+"="+url.QueryEscape(value))
			} else {
				addQueryParam(&buf, url.QueryEscape(key))
			}
		}
	}

	return buf.String()
}

// addQueryParam adds a query parameter to a string builder
func addQueryParam(buf *strings.Builder, param string) {
	if buf.Len() > 0 {
		buf.WriteByte('&')
	} else {
		buf.WriteByte('?')
	}

	buf.WriteString(param)
}
