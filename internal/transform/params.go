package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// Delivery service query parameter names
const (
	ParamWidth   = "width"
	ParamHeight  = "height"
	ParamCrop    = "crop"
	ParamPrecrop = "precrop"
)

// CropModeSafe clamps the crop region to the image bounds instead of failing
const CropModeSafe = "safe"

// Params are the delivery service query parameters accumulated for an image
type Params map[string]string

// Merge copies the given params into p, overwriting existing keys
func (p Params) Merge(other Params) {
	for k, v := range other {
		p[k] = v
	}
}

// Clone returns a copy of the params
func (p Params) Clone() Params {
	c := make(Params, len(p))
	c.Merge(p)
	return c
}

// Int returns the value of an integer parameter
func (p Params) Int(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}

	i, err := strconv.Atoi(v)
	return i, err == nil
}

// Box is a crop region in pixels
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String encodes the box in the delivery service crop format, "{w},{h},x{x},y{y},safe"
func (b Box) String() string {
	return fmt.Sprintf("%d,%d,x%d,y%d,%s", b.Width, b.Height, b.X, b.Y, CropModeSafe)
}

// ParseBox parses a crop or precrop parameter value
func ParseBox(s string) (Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 4 {
		return Box{}, fmt.Errorf("invalid crop %q", s)
	}

	var b Box
	var err error

	if b.Width, err = strconv.Atoi(parts[0]); err != nil {
		return Box{}, fmt.Errorf("invalid crop width %q: %w", s, err)
	}

	if b.Height, err = strconv.Atoi(parts[1]); err != nil {
		return Box{}, fmt.Errorf("invalid crop height %q: %w", s, err)
	}

	if !strings.HasPrefix(parts[2], "x") || !strings.HasPrefix(parts[3], "y") {
		return Box{}, fmt.Errorf("invalid crop offset %q", s)
	}

	if b.X, err = strconv.Atoi(parts[2][1:]); err != nil {
		return Box{}, fmt.Errorf("invalid crop x %q: %w", s, err)
	}

	if b.Y, err = strconv.Atoi(parts[3][1:]); err != nil {
		return Box{}, fmt.Errorf("invalid crop y %q: %w", s, err)
	}

	return b, nil
}
