package api

import (
	"net/http"
	"time"

	"github.com/DMarby/cdnstyle/internal/handler"
	"github.com/DMarby/cdnstyle/internal/health"
	"github.com/DMarby/cdnstyle/internal/hmac"
	"github.com/DMarby/cdnstyle/internal/logger"
	"github.com/DMarby/cdnstyle/internal/style"
	"github.com/DMarby/cdnstyle/internal/tracing"
	"github.com/gorilla/mux"
)

// API is a http api
type API struct {
	Renderer       *style.Renderer
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration
	HMAC           *hmac.HMAC
	// Placeholder is the URL redirected to when an attachment has no metadata
	Placeholder string
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")

	// Derivative by styled path, redirects to the delivery service
	router.Handle("/styles/{style}/{brandfolder}/at/{attachment}/{filename}", handler.Handler(a.derivativeRedirectHandler)).Methods("GET").Name("derivative")

	// Query parameters:
	// ?itok - Derivative token, required when a hmac key is configured
	// Any other query parameters are passed on to the delivery service

	// Derivative info
	router.Handle("/v1/derivative", handler.Handler(a.derivativeInfoHandler)).Methods("GET").Name("derivative_info")

	// Query parameters:
	// ?style={style} - The image style, may be omitted for styled uris
	// ?uri={uri} - The asset uri, bf://{brandfolder}/at/{attachment}/{filename}
	// ?itok - Derivative token, required when a hmac key is configured

	// Style list
	router.Handle("/v1/styles", handler.Handler(a.stylesHandler)).Methods("GET").Name("styles")

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, setting CORS headers, metrics, tracing and handler execution timeout
	return handler.AddRequestID(
		handler.Recovery(a.Log,
			handler.Logger(a.Log,
				handler.CORS([]string{"ETag", handler.RequestIDHeader},
					handler.Metrics(
						handler.Tracer(a.Tracer,
							http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out."),
							routeMatcher,
							"health",
						),
						routeMatcher,
					),
				),
			),
		),
	)
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
