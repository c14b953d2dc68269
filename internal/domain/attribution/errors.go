package attribution

import "errors"

var (
	// ErrInvalidInput indicates invalid attribution input.
	ErrInvalidInput = errors.New("invalid attribution input")
)
