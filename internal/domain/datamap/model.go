// Package datamap records what personal data an organization holds, who
// processes it, where it is stored, and how it moves between systems.
package datamap

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Sensitivity grades a data category.
type Sensitivity string

const (
	SensitivityLow     Sensitivity = "low"
	SensitivityMedium  Sensitivity = "medium"
	SensitivityHigh    Sensitivity = "high"
	SensitivitySpecial Sensitivity = "special"
)

// Valid reports whether s is a known sensitivity.
func (s Sensitivity) Valid() bool {
	switch s {
	case SensitivityLow, SensitivityMedium, SensitivityHigh, SensitivitySpecial:
		return true
	}
	return false
}

// Category is a kind of personal data, such as contact details or health records.
type Category struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Sensitivity Sensitivity `json:"sensitivity"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Processor is a party or system that processes personal data.
type Processor struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storage is a place personal data rests.
type Storage struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"created_at"`
}

// Flow is a transfer of personal data from a source to a destination.
type Flow struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParseSensitivity reads a sensitivity filter value; "all" and "" mean no constraint.
func ParseSensitivity(s string) (*Sensitivity, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	v := Sensitivity(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return nil, fmt.Errorf("%w: unknown sensitivity %q", ErrInvalidInput, s)
	}
	return &v, nil
}
