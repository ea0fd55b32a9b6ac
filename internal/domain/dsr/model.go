package dsr

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Status is the processing state of a data-subject request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// RequestType is the right a data subject is exercising.
type RequestType string

const (
	TypeAccess        RequestType = "access"
	TypeDeletion      RequestType = "deletion"
	TypeRectification RequestType = "rectification"
	TypePortability   RequestType = "portability"
	TypeRestriction   RequestType = "restriction"
	TypeObjection     RequestType = "objection"
)

// Valid reports whether t is a known request type.
func (t RequestType) Valid() bool {
	switch t {
	case TypeAccess, TypeDeletion, TypeRectification, TypePortability, TypeRestriction, TypeObjection:
		return true
	}
	return false
}

// Priority ranks how urgently a request should be handled.
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

// ResponseWindow is how long a controller has to answer a request.
const ResponseWindow = 30 * 24 * time.Hour

// Request is a data-subject request (DSR)
type Request struct {
	ID             string      `json:"id"`
	TenantID       string      `json:"tenant_id"`
	UserID         string      `json:"user_id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Type           RequestType `json:"type"`
	Status         Status      `json:"status"`
	Priority       Priority    `json:"priority"`
	Description    string      `json:"description,omitempty"`
	ResolutionNote *string     `json:"resolution_note,omitempty"`
	RequestedAt    time.Time   `json:"requested_at"`
	Deadline       time.Time   `json:"deadline"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	ModifiedAt     time.Time   `json:"modified_at"`
}

// Overdue reports whether the request is still open past its deadline.
func (r Request) Overdue(now time.Time) bool {
	if r.Status == StatusCompleted || r.Status == StatusRejected {
		return false
	}
	return !r.Deadline.IsZero() && now.After(r.Deadline)
}

// ParseStatus reads a status filter value; "all" and "" mean no constraint.
func ParseStatus(s string) (*Status, error) {
	return parseEnum(s, Status.Valid)
}

// ParseType reads a request type filter value; "all" and "" mean no constraint.
func ParseType(s string) (*RequestType, error) {
	return parseEnum(s, RequestType.Valid)
}

// ParsePriority reads a priority filter value; "all" and "" mean no constraint.
func ParsePriority(s string) (*Priority, error) {
	return parseEnum(s, Priority.Valid)
}

func parseEnum[E ~string](s string, valid func(E) bool) (*E, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	v := E(strings.ToLower(strings.TrimSpace(s)))
	if !valid(v) {
		return nil, fmt.Errorf("%w: unknown value %q", ErrInvalidInput, s)
	}
	return &v, nil
}
