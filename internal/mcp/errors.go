package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/repository"
)

// ErrInvalidParams indicates tool arguments could not be decoded or hold unknown values.
var ErrInvalidParams = errors.New("invalid params")

// ErrUnknownMethod indicates the method is not served.
var ErrUnknownMethod = errors.New("unknown method")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RPCCode returns the JSON-RPC error code for e.
func (e *APIError) RPCCode() int {
	switch e.Code {
	case "UNKNOWN_METHOD":
		return -32601
	case "INVALID_PARAMS":
		return -32602
	default:
		return -32000
	}
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "UNKNOWN_METHOD", Message: err.Error(), RecoveryHint: "Call tools/list for available tools"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check argument names and allowed values"}
	case errors.Is(err, dsr.ErrRequestNotFound):
		return &APIError{Code: "REQUEST_NOT_FOUND", Message: "data-subject request not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, grievance.ErrGrievanceNotFound):
		return &APIError{Code: "GRIEVANCE_NOT_FOUND", Message: "grievance not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, apikey.ErrKeyNotFound):
		return &APIError{Code: "KEY_NOT_FOUND", Message: "api key not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, purpose.ErrPurposeNotFound):
		return &APIError{Code: "PURPOSE_NOT_FOUND", Message: "purpose not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, webhook.ErrWebhookNotFound):
		return &APIError{Code: "WEBHOOK_NOT_FOUND", Message: "webhook not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, datamap.ErrNotFound):
		return &APIError{Code: "DATAMAP_NOT_FOUND", Message: "data map entry not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, datamap.ErrUnknownCategory):
		return &APIError{Code: "UNKNOWN_CATEGORY", Message: err.Error(), RecoveryHint: "Create the data category first"}
	case errors.Is(err, dsr.ErrInvalidTransition), errors.Is(err, grievance.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: err.Error(), RecoveryHint: "Check valid status transitions"}
	case errors.Is(err, dsr.ErrMissingResolution), errors.Is(err, grievance.ErrMissingResolution):
		return &APIError{Code: "RESOLUTION_REQUIRED", Message: err.Error(), RecoveryHint: "Provide a resolution"}
	case errors.Is(err, apikey.ErrAlreadyRevoked):
		return &APIError{Code: "ALREADY_REVOKED", Message: err.Error()}
	case errors.Is(err, webhook.ErrInvalidURL):
		return &APIError{Code: "INVALID_URL", Message: err.Error(), RecoveryHint: "Use an absolute https URL"}
	case errors.Is(err, dsr.ErrInvalidInput),
		errors.Is(err, grievance.ErrInvalidInput),
		errors.Is(err, auditlog.ErrInvalidInput),
		errors.Is(err, apikey.ErrInvalidInput),
		errors.Is(err, purpose.ErrInvalidInput),
		errors.Is(err, webhook.ErrInvalidInput),
		errors.Is(err, datamap.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, repository.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "entity already exists"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
