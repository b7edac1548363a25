package sky

import "errors"

// Sentinel kinds for sky calculation errors.
var (
	ErrUnknownObject   = errors.New("object not positionable")
	ErrMissingElements = errors.New("orbital elements missing")
)
