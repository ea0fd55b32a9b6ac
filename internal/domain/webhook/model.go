// Package webhook manages outbound event subscriptions.
package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Status is the delivery state of a webhook.
type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusFailing Status = "failing"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusPaused || s == StatusFailing
}

// Event names a webhook can subscribe to.
const (
	EventConsentGranted  = "consent.granted"
	EventConsentRevoked  = "consent.revoked"
	EventDSRCreated      = "dsr.created"
	EventDSRCompleted    = "dsr.completed"
	EventGrievanceFiled  = "grievance.submitted"
	EventGrievanceClosed = "grievance.closed"
)

// Events lists every subscribable event.
var Events = []string{EventConsentGranted, EventConsentRevoked, EventDSRCreated, EventDSRCompleted, EventGrievanceFiled, EventGrievanceClosed}

// Webhook delivers selected events to an HTTPS endpoint.
type Webhook struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Events      []string  `json:"events"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// ParseStatus reads a status filter value; "all" and "" mean no constraint.
func ParseStatus(s string) (*Status, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return &st, nil
}
