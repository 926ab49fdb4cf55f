package network

import "errors"

var (
	// ErrMalformedObject indicates an object whose geometry contradicts its kind,
	// e.g. a line-based object with fewer than two points.
	ErrMalformedObject = errors.New("malformed network object")

	// ErrNonFiniteCoordinate indicates a NaN or infinite coordinate, typically an
	// altitude the terrain lookup could not resolve.
	ErrNonFiniteCoordinate = errors.New("non-finite coordinate")
)
