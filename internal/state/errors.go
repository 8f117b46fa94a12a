package state

import "errors"

var (
	// ErrNoGeometry means an item has no drawable path (zero arch radius,
	// too few line points, unsupported shape). The draw is abandoned.
	ErrNoGeometry = errors.New("no geometry")

	// ErrUnsupportedShape marks a shape kind without a path synthesizer.
	// Errors carrying it also match ErrNoGeometry.
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrMissingAnchor means the rendered node of an existing entry could not
	// be found, so an in-place update was abandoned.
	ErrMissingAnchor = errors.New("rendered node not found")

	// ErrZoomLimit is returned when a zoom step would leave the size bounds.
	ErrZoomLimit = errors.New("zoom limit reached")
)
