package transform

import "math"

// ScaleAndCrop scales the image to cover Width x Height while keeping the aspect ratio,
// then crops the overflow. Nil offsets center the crop.
type ScaleAndCrop struct {
	X      *float64
	Y      *float64
	Width  float64
	Height float64
}

// Kind returns KindScaleAndCrop
func (ScaleAndCrop) Kind() Kind { return KindScaleAndCrop }
func (ScaleAndCrop) operation() {}

// Offset returns a pointer to v, for use as a ScaleAndCrop offset
func Offset(v float64) *float64 {
	return &v
}

func (i *Image) scaleAndCrop(s ScaleAndCrop) error {
	width, err := toInt(KindScaleAndCrop, "width", s.Width)
	if err != nil {
		return err
	}

	height, err := toInt(KindScaleAndCrop, "height", s.Height)
	if err != nil {
		return err
	}

	if s.Width <= 0 || width <= 0 {
		return invalidSize(KindScaleAndCrop, "width", width)
	}

	if s.Height <= 0 || height <= 0 {
		return invalidSize(KindScaleAndCrop, "height", height)
	}

	current := i.current
	scale := math.Max(s.Width/float64(current.Width), s.Height/float64(current.Height))
	scaledWidth := float64(current.Width) * scale
	scaledHeight := float64(current.Height) * scale

	x := math.Round((scaledWidth - s.Width) / 2)
	if s.X != nil {
		x = *s.X
	}

	y := math.Round((scaledHeight - s.Height) / 2)
	if s.Y != nil {
		y = *s.Y
	}

	if err := i.resize(Resize{Width: scaledWidth, Height: scaledHeight}); err != nil {
		return err
	}

	return i.crop(Crop{X: x, Y: y, Width: s.Width, Height: s.Height})
}
