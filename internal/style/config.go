package style

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/DMarby/cdnstyle/internal/delivery"
	"github.com/DMarby/cdnstyle/internal/transform"
)

// Errors
var (
	ErrStyleNotFound = errors.New("Image style does not exist")
	ErrInvalidConfig = errors.New("invalid style configuration")
)

var styleName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config is the TOML representation of a style file
type Config struct {
	Delivery DeliveryConfig         `toml:"delivery"`
	Styles   map[string]StyleConfig `toml:"styles"`
}

// DeliveryConfig configures the delivery service
type DeliveryConfig struct {
	BaseURL       string `toml:"base_url"`
	DefaultFormat string `toml:"default_format"`
	// Placeholder is served in place of derivatives for attachments without metadata
	Placeholder string `toml:"placeholder"`
}

// StyleConfig is a single image style
type StyleConfig struct {
	Label   string            `toml:"label"`
	Params  map[string]string `toml:"params"`
	Effects []EffectConfig    `toml:"effects"`
}

// EffectConfig is a single effect of an image style
type EffectConfig struct {
	Op     string   `toml:"op"`
	Width  float64  `toml:"width"`
	Height float64  `toml:"height"`
	X      *float64 `toml:"x"`
	Y      *float64 `toml:"y"`
}

// Style is an ordered list of operations applied to an image, plus static delivery hints
type Style struct {
	Name    string
	Label   string
	Params  map[string]string
	Effects []transform.Operation
}

// Registry holds the configured image styles
type Registry struct {
	Delivery DeliveryConfig
	styles   map[string]*Style
}

// LoadFile reads a TOML style file
func LoadFile(path string) (*Registry, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	return newRegistry(config, md)
}

// Load reads TOML style configuration from a reader
func Load(r io.Reader) (*Registry, error) {
	var config Config
	md, err := toml.NewDecoder(r).Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	return newRegistry(config, md)
}

func newRegistry(config Config, md toml.MetaData) (*Registry, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	if config.Delivery.BaseURL == "" {
		config.Delivery.BaseURL = delivery.DefaultBaseURL
	}

	registry := &Registry{
		Delivery: config.Delivery,
		styles:   make(map[string]*Style, len(config.Styles)),
	}

	for name, sc := range config.Styles {
		style, err := NewStyle(name, sc)
		if err != nil {
			return nil, err
		}

		registry.styles[name] = style
	}

	return registry, nil
}

// NewStyle converts a style configuration into a Style
func NewStyle(name string, sc StyleConfig) (*Style, error) {
	if !styleName.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid style name %q", ErrInvalidConfig, name)
	}

	style := &Style{
		Name:    name,
		Label:   sc.Label,
		Params:  sc.Params,
		Effects: make([]transform.Operation, 0, len(sc.Effects)),
	}

	for i, ec := range sc.Effects {
		op, err := ec.Operation()
		if err != nil {
			return nil, fmt.Errorf("%w: style %s effect %d: %s", ErrInvalidConfig, name, i, err)
		}

		style.Effects = append(style.Effects, op)
	}

	return style, nil
}

// Operation converts the effect configuration into a transform operation.
// Sizes are checked here, offsets and aspect ratios when the operation is applied.
func (ec EffectConfig) Operation() (transform.Operation, error) {
	kind, err := transform.ParseKind(ec.Op)
	if err != nil {
		return nil, err
	}

	if err := ec.validate(kind); err != nil {
		return nil, err
	}

	switch kind {
	case transform.KindResize:
		return transform.Resize{Width: ec.Width, Height: ec.Height}, nil
	case transform.KindCrop:
		return transform.Crop{X: value(ec.X), Y: value(ec.Y), Width: ec.Width, Height: ec.Height}, nil
	case transform.KindScaleAndCrop:
		return transform.ScaleAndCrop{X: ec.X, Y: ec.Y, Width: ec.Width, Height: ec.Height}, nil
	default:
		return transform.Desaturate{}, nil
	}
}

func (ec EffectConfig) validate(kind transform.Kind) error {
	switch kind {
	case transform.KindResize, transform.KindScaleAndCrop:
		if !validSize(ec.Width) {
			return fmt.Errorf("%s: width must be a positive number of pixels", kind)
		}
		if !validSize(ec.Height) {
			return fmt.Errorf("%s: height must be a positive number of pixels", kind)
		}
	case transform.KindCrop:
		if ec.Width == 0 && ec.Height == 0 {
			return fmt.Errorf("%s: at least one of width or height is required", kind)
		}
		if ec.Width != 0 && !validSize(ec.Width) {
			return fmt.Errorf("%s: width must be a positive number of pixels", kind)
		}
		if ec.Height != 0 && !validSize(ec.Height) {
			return fmt.Errorf("%s: height must be a positive number of pixels", kind)
		}
	}

	return nil
}

// validSize reports whether v rounds to a pixel count in the int32 range
func validSize(v float64) bool {
	r := math.Round(v)
	return r >= 1 && r <= math.MaxInt32
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

// Get returns the style with the given name
func (r *Registry) Get(name string) (*Style, error) {
	style, ok := r.styles[name]
	if !ok {
		return nil, ErrStyleNotFound
	}

	return style, nil
}

// Add registers a style, replacing any existing style with the same name
func (r *Registry) Add(style *Style) {
	if r.styles == nil {
		r.styles = make(map[string]*Style)
	}

	r.styles[style.Name] = style
}

// Names returns the sorted names of all styles
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Encoder returns a delivery encoder for the configured delivery service
func (r *Registry) Encoder(formats *delivery.FormatTable) *delivery.Encoder {
	return delivery.NewEncoder(r.Delivery.BaseURL, r.Delivery.DefaultFormat, formats)
}
