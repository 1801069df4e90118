package transform

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("image metadata not found")
	ErrUnsupported     = errors.New("unsupported operation")
)

// ArgumentError is returned when an operation is given missing or invalid arguments
type ArgumentError struct {
	Op      Kind
	Arg     string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Arg, e.Message)
}

// Is makes ArgumentError match ErrInvalidArgument
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidSize(op Kind, arg string, value int) *ArgumentError {
	return &ArgumentError{
		Op:      op,
		Arg:     arg,
		Message: fmt.Sprintf("'%d' must be greater than zero", value),
	}
}

// NotFoundError is returned when the metadata backing an image can't be resolved
type NotFoundError struct {
	Ref string
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrNotFound, e.Ref)
	}

	return fmt.Sprintf("%s: %s: %s", ErrNotFound, e.Ref, e.Err)
}

// Is makes NotFoundError match ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// UnsupportedOperationError is returned for operations the delivery service has no parameters for
type UnsupportedOperationError struct {
	Op Kind
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s has no delivery service equivalent", ErrUnsupported, e.Op)
}

// Is makes UnsupportedOperationError match ErrUnsupported
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}
