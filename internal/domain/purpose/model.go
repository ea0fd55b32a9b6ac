// Package purpose manages the processing purposes consent is collected for.
package purpose

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// LegalBasis is the lawful ground for processing under a purpose.
type LegalBasis string

const (
	BasisConsent            LegalBasis = "consent"
	BasisContract           LegalBasis = "contract"
	BasisLegalObligation    LegalBasis = "legal_obligation"
	BasisVitalInterest      LegalBasis = "vital_interest"
	BasisLegitimateInterest LegalBasis = "legitimate_interest"
)

// Valid reports whether b is a known legal basis.
func (b LegalBasis) Valid() bool {
	switch b {
	case BasisConsent, BasisContract, BasisLegalObligation, BasisVitalInterest, BasisLegitimateInterest:
		return true
	}
	return false
}

// Status controls whether new consent may be collected for a purpose.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusActive || s == StatusArchived
}

// Purpose describes why personal data is processed.
type Purpose struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	LegalBasis  LegalBasis `json:"legal_basis"`
	Status      Status     `json:"status"`
	// Retention is how long data collected under the purpose is kept, in days.
	Retention int       `json:"retention_days,omitempty"`
	CreatedAt time.Time `json:"created_at"`
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

// ParseLegalBasis reads a legal basis filter value; "all" and "" mean no constraint.
func ParseLegalBasis(s string) (*LegalBasis, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	b := LegalBasis(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return nil, fmt.Errorf("%w: unknown legal basis %q", ErrInvalidInput, s)
	}
	return &b, nil
}
