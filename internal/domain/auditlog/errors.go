package auditlog

import "errors"

// ErrInvalidInput indicates invalid input for audit log operations.
var ErrInvalidInput = errors.New("invalid audit log input")
