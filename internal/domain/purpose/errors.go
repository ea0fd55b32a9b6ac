package purpose

import "errors"

var (
	// ErrPurposeNotFound indicates the purpose doesn't exist.
	ErrPurposeNotFound = errors.New("purpose not found")
	// ErrInvalidInput indicates invalid input for purpose operations.
	ErrInvalidInput = errors.New("invalid purpose input")
)
