package keyword

import "errors"

var (
	// ErrUnknownPolicy is returned by ParsePolicy for an unrecognized name.
	ErrUnknownPolicy = errors.New("unknown classification policy")

	// ErrUnknownMatchMode is returned by ParseMatchMode for an unrecognized name.
	ErrUnknownMatchMode = errors.New("unknown match mode")
)
