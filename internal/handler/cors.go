package handler

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS is a handler for setting CORS headers on GET requests from any origin
func CORS(exposedHeaders []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: exposedHeaders,
	}).Handler(next)
}
