package harmonics

import "errors"

var (
	// ErrFactorialRange is returned when a factorial outside the
	// tabulated range [0, 20] is requested.
	ErrFactorialRange = errors.New("factorial argument outside tabulated range")

	// ErrUnsupportedDegree is returned for spherical harmonic degrees
	// without a closed-form evaluation (odd, negative or above 10).
	ErrUnsupportedDegree = errors.New("unsupported spherical harmonic degree")

	// ErrUnsupportedOrder is returned when the absolute order of a
	// spherical harmonic exceeds its degree.
	ErrUnsupportedOrder = errors.New("spherical harmonic order exceeds degree")
)
