package handler

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid"
)

type ctxKeyRequestID int

const requestIDKey ctxKeyRequestID = 0

// RequestIDHeader is the header used to pass on the request id
const RequestIDHeader = "X-Request-ID"

// AddRequestID is a handler that adds a request id to the context and response headers of each request.
// An id already set by an upstream proxy is kept.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			u, err := uuid.NewV4()
			if err != nil {
				http.Error(w, "Something went wrong", http.StatusInternalServerError)
				return
			}

			id = u.String()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetReqID returns the request id from the context, if any
func GetReqID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}

	return ""
}
