package apikey

import "errors"

var (
	// ErrKeyNotFound indicates the key doesn't exist.
	ErrKeyNotFound = errors.New("api key not found")
	// ErrInvalidKey indicates a presented secret is unknown, revoked, or expired.
	ErrInvalidKey = errors.New("invalid api key")
	// ErrAlreadyRevoked indicates the key was revoked before.
	ErrAlreadyRevoked = errors.New("api key already revoked")
	// ErrInvalidInput indicates invalid input for key operations.
	ErrInvalidInput = errors.New("invalid api key input")
)
