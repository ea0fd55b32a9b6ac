package webhook

import "errors"

var (
	// ErrWebhookNotFound indicates the webhook doesn't exist.
	ErrWebhookNotFound = errors.New("webhook not found")
	// ErrInvalidURL indicates the endpoint is not an absolute https URL.
	ErrInvalidURL = errors.New("webhook url must be an absolute https url")
	// ErrInvalidInput indicates invalid input for webhook operations.
	ErrInvalidInput = errors.New("invalid webhook input")
)
