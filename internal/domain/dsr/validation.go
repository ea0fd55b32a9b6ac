package dsr

import "strings"

// ValidateCreateInput validates fields required to open a request.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.UserID) == "" {
		return ErrInvalidInput
	}
	if !req.Type.Valid() {
		return ErrInvalidInput
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateTransition validates a requested status change.
func ValidateTransition(from, to Status, note *string) error {
	valid := false
	switch from {
	case StatusPending:
		valid = to == StatusInProgress || to == StatusRejected
	case StatusInProgress:
		valid = to == StatusPending || to == StatusCompleted || to == StatusRejected
	}
	if !valid {
		return ErrInvalidTransition
	}

	if to == StatusCompleted || to == StatusRejected {
		if note == nil || strings.TrimSpace(*note) == "" {
			return ErrMissingResolution
		}
	}
	return nil
}
