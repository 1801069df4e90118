package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/DMarby/cdnstyle/internal/asset"
	"github.com/DMarby/cdnstyle/internal/handler"
	"github.com/DMarby/cdnstyle/internal/params"
	"github.com/DMarby/cdnstyle/internal/style"
	"github.com/DMarby/cdnstyle/internal/transform"
	"github.com/twmb/murmur3"
)

// DerivativeInfo describes a rendered derivative
type DerivativeInfo struct {
	Style      string            `json:"style"`
	URI        string            `json:"uri"`
	URL        string            `json:"url"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Operations []string          `json:"operations"`
	Params     map[string]string `json:"params"`
}

func (a *API) derivativeRedirectHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Get the path and query parameters
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	if handlerErr := a.validateToken(r); handlerErr != nil {
		return handlerErr
	}

	derivative, err := a.Renderer.Render(r.Context(), p.Style, p.URI)
	if err != nil {
		if errors.Is(err, transform.ErrNotFound) && a.Placeholder != "" {
			a.redirect(w, r, a.Placeholder)
			return nil
		}

		return a.renderError(r, err)
	}

	a.redirect(w, r, derivative.URL)
	return nil
}

func (a *API) derivativeInfoHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	p, err := params.GetQueryParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	if handlerErr := a.validateToken(r); handlerErr != nil {
		return handlerErr
	}

	derivative, err := a.Renderer.Render(r.Context(), p.Style, p.URI)
	if err != nil {
		return a.renderError(r, err)
	}

	info := DerivativeInfo{
		Style:      derivative.Style,
		URI:        derivative.URI,
		URL:        derivative.URL,
		Width:      derivative.Width,
		Height:     derivative.Height,
		Operations: make([]string, len(derivative.Operations)),
		Params:     derivative.Params,
	}

	for i, op := range derivative.Operations {
		info.Operations[i] = op.Kind.String()
	}

	// The url is a pure function of the style, the metadata and the uri
	etag := fmt.Sprintf("\"%x\"", murmur3.StringSum64(derivative.URL))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		a.logError(r, "error encoding derivative info", err)
		return handler.InternalServerError()
	}

	return nil
}

func (a *API) validateToken(r *http.Request) *handler.Error {
	if !a.HMAC.Enabled() {
		return nil
	}

	valid, err := params.ValidateToken(a.HMAC, r)
	if err != nil {
		a.logError(r, "error validating derivative token", err)
		return handler.InternalServerError()
	}

	if !valid {
		return handler.Forbidden()
	}

	return nil
}

func (a *API) renderError(r *http.Request, err error) *handler.Error {
	switch {
	case errors.Is(err, style.ErrStyleNotFound):
		return handler.NotFound(style.ErrStyleNotFound.Error())
	case errors.Is(err, asset.ErrInvalidURI):
		return handler.BadRequest(params.ErrInvalidURI.Error())
	case errors.Is(err, transform.ErrNotFound):
		return handler.NotFound("Attachment does not exist")
	case errors.Is(err, transform.ErrInvalidArgument):
		a.logError(r, "invalid image style", err)
		return handler.InternalServerError()
	default:
		a.logError(r, "error rendering derivative", err)
		return handler.InternalServerError()
	}
}

func (a *API) redirect(w http.ResponseWriter, r *http.Request, url string) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header()["Content-Type"] = nil
	http.Redirect(w, r, url, http.StatusFound)
}
