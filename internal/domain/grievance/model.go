package grievance

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Status is the handling state of a grievance.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusEscalated  Status = "escalated"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusEscalated, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority ranks how urgently a grievance should be handled.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := query.PriorityRank[string(p)]
	return ok
}

// Grievance is a complaint raised by a data principal against an organization.
type Grievance struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	UserID       string     `json:"user_id"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description"`
	Organization string     `json:"organization"`
	Status       Status     `json:"status"`
	Priority     Priority   `json:"priority"`
	Resolution   *string    `json:"resolution,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ModifiedAt   time.Time  `json:"modified_at"`
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

// ParsePriority reads a priority filter value; "all" and "" mean no constraint.
func ParsePriority(s string) (*Priority, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
	}
	return &p, nil
}
