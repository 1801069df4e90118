package transform

import (
	"context"
	"errors"
	"fmt"
)

// Descriptor contains the metadata of the original image
type Descriptor struct {
	Width     int
	Height    int
	MimeType  string
	SourceRef string
}

// Loader loads the descriptor for an image reference
// Implementations return an error matching ErrNotFound when the reference can't be resolved
type Loader interface {
	Load(ctx context.Context, ref string) (*Descriptor, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, ref string) (*Descriptor, error)

// Load calls f(ctx, ref)
func (f LoaderFunc) Load(ctx context.Context, ref string) (*Descriptor, error) {
	return f(ctx, ref)
}

// Size is a width and height in pixels
type Size struct {
	Width  int
	Height int
}

// Dimension selects the width or the height of an image
type Dimension int

const (
	// DimensionWidth is the image width
	DimensionWidth Dimension = iota
	// DimensionHeight is the image height
	DimensionHeight
)

// Record is an entry in the operation log
type Record struct {
	Kind Kind `json:"kind"`
	// Args are the validated arguments the operation was applied with
	Args Operation `json:"args"`
}

// Image holds the virtual transform state of a single image for a single render.
// It is not safe for concurrent use.
type Image struct {
	ref        string
	loader     Loader
	descriptor *Descriptor

	current Size
	log     []Record
	params  Params
}

// New returns an Image whose descriptor is loaded lazily from the loader
func New(ref string, loader Loader) *Image {
	return &Image{
		ref:    ref,
		loader: loader,
		params: Params{},
	}
}

// NewFromDescriptor returns an Image for an already loaded descriptor
func NewFromDescriptor(d Descriptor) *Image {
	i := &Image{
		ref:    d.SourceRef,
		params: Params{},
	}
	i.setDescriptor(&d)
	return i
}

// Ref returns the reference the image was created for
func (i *Image) Ref() string {
	return i.ref
}

func (i *Image) setDescriptor(d *Descriptor) {
	i.descriptor = d
	i.current = Size{d.Width, d.Height}
}

func (i *Image) load(ctx context.Context) error {
	if i.descriptor != nil {
		return nil
	}

	if i.loader == nil {
		return &NotFoundError{Ref: i.ref}
	}

	d, err := i.loader.Load(ctx, i.ref)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return err
		}

		if errors.Is(err, ErrNotFound) {
			return &NotFoundError{Ref: i.ref, Err: err}
		}

		return fmt.Errorf("loading metadata for %s: %w", i.ref, err)
	}

	if d == nil || d.Width < 1 || d.Height < 1 {
		return &NotFoundError{Ref: i.ref, Err: errors.New("missing dimensions")}
	}

	i.setDescriptor(d)
	return nil
}

// Descriptor returns the metadata of the original image
func (i *Image) Descriptor(ctx context.Context) (Descriptor, error) {
	if err := i.load(ctx); err != nil {
		return Descriptor{}, err
	}

	return *i.descriptor, nil
}

// Width returns the current virtual width
func (i *Image) Width(ctx context.Context) (int, error) {
	if err := i.load(ctx); err != nil {
		return 0, err
	}

	return i.current.Width, nil
}

// Height returns the current virtual height
func (i *Image) Height(ctx context.Context) (int, error) {
	if err := i.load(ctx); err != nil {
		return 0, err
	}

	return i.current.Height, nil
}

// Size returns the current virtual size
func (i *Image) Size(ctx context.Context) (Size, error) {
	if err := i.load(ctx); err != nil {
		return Size{}, err
	}

	return i.current, nil
}

// OriginalDimension returns the width or height of the original image, regardless of applied operations
func (i *Image) OriginalDimension(ctx context.Context, d Dimension) (int, error) {
	if err := i.load(ctx); err != nil {
		return 0, err
	}

	if d == DimensionHeight {
		return i.descriptor.Height, nil
	}

	return i.descriptor.Width, nil
}

func (i *Image) originalSize() Size {
	return Size{i.descriptor.Width, i.descriptor.Height}
}

// Operations returns a copy of the operation log
func (i *Image) Operations() []Record {
	log := make([]Record, len(i.log))
	copy(log, i.log)
	return log
}

// Params returns a copy of the accumulated delivery service parameters
func (i *Image) Params() Params {
	return i.params.Clone()
}

func (i *Image) record(kind Kind, args Operation) {
	i.log = append(i.log, Record{Kind: kind, Args: args})
}

func (i *Image) setDimensions(width, height int) {
	i.current = Size{width, height}
}

func (i *Image) mergeParams(p Params) {
	i.params.Merge(p)
}

// snapshot captures the mutable state so a failed operation can be rolled back
type snapshot struct {
	current Size
	logLen  int
	params  Params
}

func (i *Image) snapshot() snapshot {
	return snapshot{
		current: i.current,
		logLen:  len(i.log),
		params:  i.params.Clone(),
	}
}

func (i *Image) restore(s snapshot) {
	i.current = s.current
	i.log = i.log[:s.logLen]
	i.params = s.params
}
