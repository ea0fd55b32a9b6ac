package grievance

import "errors"

var (
	// ErrGrievanceNotFound indicates the grievance doesn't exist.
	ErrGrievanceNotFound = errors.New("grievance not found")
	// ErrInvalidTransition indicates an invalid status transition.
	ErrInvalidTransition = errors.New("invalid grievance status transition")
	// ErrMissingResolution indicates a resolution is required to resolve a grievance.
	ErrMissingResolution = errors.New("resolution required to resolve grievance")
	// ErrInvalidInput indicates invalid input for grievance operations.
	ErrInvalidInput = errors.New("invalid grievance input")
)
