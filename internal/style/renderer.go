package style

import (
	"context"
	"errors"
	"fmt"

	"github.com/DMarby/cdnstyle/internal/asset"
	"github.com/DMarby/cdnstyle/internal/delivery"
	"github.com/DMarby/cdnstyle/internal/logger"
	"github.com/DMarby/cdnstyle/internal/tracing"
	"github.com/DMarby/cdnstyle/internal/transform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FormatParam is the delivery service parameter selecting the output format
const FormatParam = "format"

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "style_operations_total",
	Help: "Number of image style operations applied, by kind and result",
}, []string{"kind", "result"})

// Derivative is the result of rendering an image through a style
type Derivative struct {
	Style      string             `json:"style"`
	URI        string             `json:"uri"`
	URL        string             `json:"url"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Operations []transform.Record `json:"operations"`
	Params     transform.Params   `json:"params"`
}

// Renderer renders Brandfolder assets through image styles
type Renderer struct {
	Styles  *Registry
	Loader  transform.Loader
	Encoder *delivery.Encoder
	Tracer  *tracing.Tracer
	Log     *logger.Logger

	// Fallback renders missing attachments as the unstyled asset instead of returning transform.ErrNotFound
	Fallback bool
}

// Render applies the effects of a style to an asset and returns the delivery URL of the derivative.
//
// The asset uri may carry a style, in which case it is used when style is empty.
// Unsupported effects are logged and skipped. Errors matching transform.ErrInvalidArgument fail the derivative,
// and errors matching transform.ErrNotFound mean the caller should substitute a placeholder.
func (r *Renderer) Render(ctx context.Context, style string, rawURI string) (*Derivative, error) {
	ctx, span := r.Tracer.Start(ctx, "style.Renderer.Render")
	defer span.End()

	uri, err := asset.Parse(rawURI)
	if err != nil {
		return nil, err
	}

	if style == "" {
		style = uri.Style
	}

	s, err := r.Styles.Get(style)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, style)
	}

	uri = uri.Unstyled()
	derivative, err := r.render(ctx, s, uri)
	if err != nil && r.Fallback && errors.Is(err, transform.ErrNotFound) {
		r.Log.Debugw("rendering missing attachment unstyled", "style", s.Name, "uri", uri.String(), "error", err)
		return r.unstyled(s, uri)
	}

	return derivative, err
}

func (r *Renderer) render(ctx context.Context, s *Style, uri *asset.URI) (*Derivative, error) {
	image := transform.New(uri.String(), r.Loader)

	for _, effect := range s.Effects {
		err := image.Apply(ctx, effect)
		switch {
		case err == nil:
			operationsTotal.WithLabelValues(effect.Kind().String(), "applied").Inc()
		case errors.Is(err, transform.ErrUnsupported):
			operationsTotal.WithLabelValues(effect.Kind().String(), "unsupported").Inc()
			r.Log.Warnw("skipping unsupported image effect",
				"style", s.Name,
				"effect", effect.Kind().String(),
				"uri", uri.String(),
			)
		case errors.Is(err, transform.ErrInvalidArgument):
			operationsTotal.WithLabelValues(effect.Kind().String(), "invalid").Inc()
			return nil, fmt.Errorf("style %s: %w", s.Name, err)
		default:
			return nil, err
		}
	}

	descriptor, err := image.Descriptor(ctx)
	if err != nil {
		return nil, err
	}

	size, err := image.Size(ctx)
	if err != nil {
		return nil, err
	}

	params := image.Params()
	url, err := r.Encoder.URL(uri.Path(), params, r.hints(s, uri, descriptor))
	if err != nil {
		return nil, err
	}

	return &Derivative{
		Style:      s.Name,
		URI:        uri.WithStyle(s.Name).String(),
		URL:        url,
		Width:      size.Width,
		Height:     size.Height,
		Operations: image.Operations(),
		Params:     params,
	}, nil
}

// unstyled returns the derivative of an asset without any transform params
func (r *Renderer) unstyled(s *Style, uri *asset.URI) (*Derivative, error) {
	url, err := r.Encoder.URL(uri.Path(), nil, s.Params)
	if err != nil {
		return nil, err
	}

	return &Derivative{
		Style:      s.Name,
		URI:        uri.WithStyle(s.Name).String(),
		URL:        url,
		Operations: []transform.Record{},
		Params:     transform.Params{},
	}, nil
}

// hints returns the static parameters of the style.
// Filenames without an extension get an explicit format derived from the mimetype.
func (r *Renderer) hints(s *Style, uri *asset.URI, descriptor transform.Descriptor) map[string]string {
	hints := make(map[string]string, len(s.Params)+1)
	for k, v := range s.Params {
		hints[k] = v
	}

	if uri.Extension() != "" || r.Encoder.Formats == nil {
		return hints
	}

	if _, ok := hints[FormatParam]; ok {
		return hints
	}

	ext, ok := r.Encoder.Formats.ExtensionForMimeType(descriptor.MimeType)
	if !ok {
		return hints
	}

	if class, _ := r.Encoder.Formats.Class(ext); class == delivery.Raster && r.Encoder.DefaultFormat != "" {
		ext = r.Encoder.DefaultFormat
	}

	hints[FormatParam] = ext
	return hints
}
