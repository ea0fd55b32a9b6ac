package auditlog

import (
	"strings"
	"time"
)

// Initiator identifies who caused an audited action.
type Initiator string

const (
	InitiatorUser   Initiator = "user"
	InitiatorAdmin  Initiator = "admin"
	InitiatorSystem Initiator = "system"
)

// Valid reports whether i is a known initiator.
func (i Initiator) Valid() bool {
	switch i {
	case InitiatorUser, InitiatorAdmin, InitiatorSystem:
		return true
	}
	return false
}

// Action types are "category.event" pairs.
const (
	ActionConsentGranted     = "consent.granted"
	ActionConsentRevoked     = "consent.revoked"
	ActionConsentUpdated     = "consent.updated"
	ActionUserLogin          = "user.login"
	ActionDSRCreated         = "dsr.created"
	ActionDSRStatusChanged   = "dsr.status_changed"
	ActionGrievanceSubmitted = "grievance.submitted"
	ActionGrievanceUpdated   = "grievance.status_changed"
	ActionAPIKeyCreated      = "apikey.created"
	ActionAPIKeyRevoked      = "apikey.revoked"
	ActionPurposeCreated     = "purpose.created"
	ActionWebhookCreated     = "webhook.created"
	ActionWebhookUpdated     = "webhook.status_changed"
)

// Entry is one record in the audit log.
type Entry struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	UserID      string    `json:"user_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	ActionType  string    `json:"action_type"`
	Initiator   Initiator `json:"initiator"`
	SourceIP    string    `json:"source_ip,omitempty"`
	Region      string    `json:"region,omitempty"`
	PurposeID   *string   `json:"purpose_id,omitempty"`
	PurposeName *string   `json:"purpose_name,omitempty"`
	Details     string    `json:"details,omitempty"` // JSON string
	Timestamp   time.Time `json:"timestamp"`
}

// Category returns the category segment of the action type:
// "consent" for "consent.granted".
func (e Entry) Category() string {
	head, _, _ := strings.Cut(e.ActionType, ".")
	return head
}
