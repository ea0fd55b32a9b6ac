package datamap

import "errors"

var (
	// ErrNotFound indicates the data map entry doesn't exist.
	ErrNotFound = errors.New("data map entry not found")
	// ErrUnknownCategory indicates a reference to a category that doesn't exist.
	ErrUnknownCategory = errors.New("unknown data category")
	// ErrInvalidInput indicates invalid input for data map operations.
	ErrInvalidInput = errors.New("invalid data map input")
)
