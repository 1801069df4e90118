package transform

import "math"

// Crop cuts a region out of the image.
// A zero Width or Height is derived from the other using the current aspect ratio.
type Crop struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Kind returns KindCrop
func (Crop) Kind() Kind { return KindCrop }
func (Crop) operation() {}

func (c Crop) validate(current Size) (Box, error) {
	if c.Width == 0 && c.Height == 0 {
		return Box{}, &ArgumentError{
			Op:      KindCrop,
			Message: "at least one dimension ('width' or 'height') must be provided",
		}
	}

	aspect := float64(current.Height) / float64(current.Width)
	if c.Height == 0 {
		c.Height = c.Width * aspect
	}
	if c.Width == 0 {
		c.Width = c.Height / aspect
	}

	var b Box
	var err error
	if b.X, err = toInt(KindCrop, "x", c.X); err != nil {
		return Box{}, err
	}
	if b.Y, err = toInt(KindCrop, "y", c.Y); err != nil {
		return Box{}, err
	}
	if b.Width, err = toInt(KindCrop, "width", c.Width); err != nil {
		return Box{}, err
	}
	if b.Height, err = toInt(KindCrop, "height", c.Height); err != nil {
		return Box{}, err
	}

	if b.Width <= 0 {
		return Box{}, invalidSize(KindCrop, "width", b.Width)
	}

	if b.Height <= 0 {
		return Box{}, invalidSize(KindCrop, "height", b.Height)
	}

	return b, nil
}

func (i *Image) crop(c Crop) error {
	box, err := c.validate(i.current)
	if err != nil {
		return err
	}

	params := ProjectCrop(i.log, i.originalSize(), i.current, box)
	if _, ok := params[ParamPrecrop]; ok {
		// The delivery service applies crop after scaling, so an earlier crop box would cut the output
		delete(i.params, ParamCrop)
	}
	i.mergeParams(params)
	i.setDimensions(box.Width, box.Height)
	i.record(KindCrop, Crop{
		X:      float64(box.X),
		Y:      float64(box.Y),
		Width:  float64(box.Width),
		Height: float64(box.Height),
	})

	return nil
}

// ProjectCrop returns the delivery service parameters for a crop box given in the current coordinate space.
//
// The delivery service always crops before it scales. Without an earlier resize the box is already in
// original image space and maps to a plain crop. After a resize the box is scaled back into original
// image space by the larger of the two axis scale factors and sent as a precrop, with width and height
// set to the requested output size. The single factor is only exact if the resize kept the aspect ratio.
func ProjectCrop(log []Record, original, current Size, box Box) Params {
	if !resizedBefore(log) {
		return Params{ParamCrop: box.String()}
	}

	widthScale := float64(original.Width) / float64(current.Width)
	heightScale := float64(original.Height) / float64(current.Height)
	scale := math.Max(widthScale, heightScale)

	projected := Box{
		X:      int(math.Round(float64(box.X) * scale)),
		Y:      int(math.Round(float64(box.Y) * scale)),
		Width:  int(math.Round(float64(box.Width) * scale)),
		Height: int(math.Round(float64(box.Height) * scale)),
	}

	return Params{
		ParamPrecrop: projected.String(),
		ParamWidth:   itoa(box.Width),
		ParamHeight:  itoa(box.Height),
	}
}

func resizedBefore(log []Record) bool {
	for n := len(log) - 1; n >= 0; n-- {
		if log[n].Kind == KindResize {
			return true
		}
	}

	return false
}
