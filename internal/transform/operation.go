package transform

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies an operation
type Kind int

// Operation kinds
const (
	KindResize Kind = iota + 1
	KindCrop
	KindScaleAndCrop
	KindDesaturate
)

func (k Kind) String() string {
	switch k {
	case KindResize:
		return "resize"
	case KindCrop:
		return "crop"
	case KindScaleAndCrop:
		return "scale_and_crop"
	case KindDesaturate:
		return "desaturate"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its name
func (k Kind) MarshalText() ([]byte, error) {
	if k < KindResize || k > KindDesaturate {
		return nil, fmt.Errorf("unknown operation kind %d", int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its name
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = kind
	return nil
}

// ParseKind returns the Kind for an operation name
func ParseKind(name string) (Kind, error) {
	switch name {
	case "resize":
		return KindResize, nil
	case "crop":
		return KindCrop, nil
	case "scale_and_crop":
		return KindScaleAndCrop, nil
	case "desaturate":
		return KindDesaturate, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", name)
	}
}

// Operation is one of Resize, Crop, ScaleAndCrop or Desaturate
type Operation interface {
	Kind() Kind
	operation()
}

// Apply validates the operation against the current state and applies it.
// The image is left unmodified when an error is returned.
func (i *Image) Apply(ctx context.Context, op Operation) error {
	if _, ok := op.(Desaturate); ok {
		return &UnsupportedOperationError{Op: KindDesaturate}
	}

	if err := i.load(ctx); err != nil {
		return err
	}

	s := i.snapshot()

	var err error
	switch o := op.(type) {
	case Resize:
		err = i.resize(o)
	case Crop:
		err = i.crop(o)
	case ScaleAndCrop:
		err = i.scaleAndCrop(o)
	default:
		err = fmt.Errorf("unknown operation %T", op)
	}

	if err != nil {
		i.restore(s)
	}

	return err
}

// toInt rounds half away from zero and rejects values outside the int32 range
func toInt(op Kind, arg string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ArgumentError{Op: op, Arg: arg, Message: "not a finite number"}
	}

	r := math.Round(v)
	if math.Abs(r) > math.MaxInt32 {
		return 0, &ArgumentError{Op: op, Arg: arg, Message: "out of range"}
	}

	return int(r), nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
