package alias

import "errors"

var (
	// ErrInvalidInput indicates an empty account identifier or name.
	ErrInvalidInput = errors.New("invalid alias input")
)
