package hgi

import "errors"

var (
	// ErrInvalidMagic is returned when an archive does not start with the hgi magic number.
	ErrInvalidMagic = errors.New("hgi: invalid magic")

	// ErrMalformed reports a truncated or undecodable metadata/pyramid payload.
	ErrMalformed = errors.New("hgi: malformed archive")

	// ErrContract reports inputs that break the codec's invariants: bad metadata,
	// a pyramid whose shape does not match its metadata, or an image of the wrong size.
	ErrContract = errors.New("hgi: contract violation")

	ErrUnsupportedInterpolation = errors.New("hgi: unsupported interpolation")
)
