package transform

// Desaturate converts the image to grayscale.
// The delivery service has no grayscale parameter, so applying it always fails with an UnsupportedOperationError.
type Desaturate struct{}

// Kind returns KindDesaturate
func (Desaturate) Kind() Kind { return KindDesaturate }
func (Desaturate) operation() {}
