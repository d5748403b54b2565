package idea

import "errors"

var (
	ErrNotFound     = errors.New("idea: not found")
	ErrInvalidInput = errors.New("idea: invalid input")
	ErrForbidden    = errors.New("idea: forbidden")
)
