package transform

// Resize scales the image to the given dimensions, ignoring the aspect ratio
type Resize struct {
	Width  float64
	Height float64
}

// Kind returns KindResize
func (Resize) Kind() Kind { return KindResize }
func (Resize) operation() {}

func (r Resize) validate() (width, height int, err error) {
	if width, err = toInt(KindResize, "width", r.Width); err != nil {
		return
	}

	if height, err = toInt(KindResize, "height", r.Height); err != nil {
		return
	}

	if width <= 0 {
		return 0, 0, invalidSize(KindResize, "width", width)
	}

	if height <= 0 {
		return 0, 0, invalidSize(KindResize, "height", height)
	}

	return
}

func (i *Image) resize(r Resize) error {
	width, height, err := r.validate()
	if err != nil {
		return err
	}

	i.mergeParams(Params{
		ParamWidth:  itoa(width),
		ParamHeight: itoa(height),
	})
	i.setDimensions(width, height)
	i.record(KindResize, Resize{Width: float64(width), Height: float64(height)})

	return nil
}
