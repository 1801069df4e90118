package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Route labels for requests that did not match a named route
const (
	RouteNotFound         = "not_found"
	RouteMethodNotAllowed = "method_not_allowed"
)

// RouteMatcher maps a request to a bounded route label for metrics and span names
type RouteMatcher interface {
	Match(r *http.Request) string
}

// MuxRouteMatcher matches routes of a mux router
type MuxRouteMatcher struct {
	Router *mux.Router
}

// Match returns the mux route name of a request, falling back to the path template.
// Derivative paths carry the style and attachment, so unnamed routes must not fall back to the raw path.
func (m *MuxRouteMatcher) Match(r *http.Request) string {
	var match mux.RouteMatch
	matched := m.Router.Match(r, &match)

	if match.MatchErr == mux.ErrMethodMismatch {
		return RouteMethodNotAllowed
	}

	// The Route is nil on a match when a NotFoundHandler is set
	if !matched || match.Route == nil {
		return RouteNotFound
	}

	if name := match.Route.GetName(); name != "" {
		return name
	}

	if tmpl, err := match.Route.GetPathTemplate(); err == nil {
		return tmpl
	}

	return RouteNotFound
}
