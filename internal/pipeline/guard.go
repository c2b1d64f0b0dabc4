package pipeline

import (
	"errors"
	"fmt"
)

// ErrRendererPanic indicates a math or diagram renderer panicked.
var ErrRendererPanic = errors.New("renderer panicked")

// guard runs fn and converts a panic into ErrRendererPanic.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, fmt.Errorf("%w: %v", ErrRendererPanic, r)
		}
	}()
	return fn()
}
