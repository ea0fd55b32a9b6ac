package dsr

import "errors"

var (
	// ErrRequestNotFound indicates the request doesn't exist.
	ErrRequestNotFound = errors.New("data-subject request not found")
	// ErrInvalidTransition indicates an invalid status transition.
	ErrInvalidTransition = errors.New("invalid request status transition")
	// ErrMissingResolution indicates a resolution note is required for the transition.
	ErrMissingResolution = errors.New("resolution note required for status transition")
	// ErrInvalidInput indicates invalid input for request operations.
	ErrInvalidInput = errors.New("invalid request input")
)
