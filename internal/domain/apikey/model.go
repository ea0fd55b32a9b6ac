package apikey

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Status is the stored lifecycle state of a key.
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
	// StatusExpired is derived from ExpiresAt and never stored.
	StatusExpired Status = "expired"
)

// Environment separates live keys from test keys.
type Environment string

const (
	EnvironmentLive Environment = "live"
	EnvironmentTest Environment = "test"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	return e == EnvironmentLive || e == EnvironmentTest
}

// Scopes a key may be granted.
const (
	ScopeConsentRead  = "consent:read"
	ScopeConsentWrite = "consent:write"
	ScopeDSRRead      = "dsr:read"
	ScopeDSRWrite     = "dsr:write"
	ScopeAuditRead    = "audit:read"
	ScopeAdmin        = "admin"
)

// Scopes lists every grantable scope.
var Scopes = []string{ScopeConsentRead, ScopeConsentWrite, ScopeDSRRead, ScopeDSRWrite, ScopeAuditRead, ScopeAdmin}

// Key is an API credential. Only the hash of the secret is stored.
type Key struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Name        string      `json:"name"`
	Prefix      string      `json:"prefix"`
	Hash        string      `json:"-"`
	Scopes      []string    `json:"scopes"`
	Environment Environment `json:"environment"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	LastUsedAt  *time.Time  `json:"last_used_at,omitempty"`
	ExpiresAt   *time.Time  `json:"expires_at,omitempty"`
	RevokedAt   *time.Time  `json:"revoked_at,omitempty"`
}

// StatusAt reports the effective status at now, deriving expiry.
func (k Key) StatusAt(now time.Time) Status {
	if k.Status == StatusRevoked {
		return StatusRevoked
	}
	if k.ExpiresAt != nil && !now.Before(*k.ExpiresAt) {
		return StatusExpired
	}
	return k.Status
}

// Usable reports whether the key may authenticate requests at now.
func (k Key) Usable(now time.Time) bool {
	return k.StatusAt(now) == StatusActive
}

// Created wraps a new key together with its one-time plaintext secret.
type Created struct {
	Key    Key    `json:"key"`
	Secret string `json:"secret"`
}

// ParseStatus reads a status filter value; "all" and "" mean no constraint.
func ParseStatus(s string) (*Status, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusRevoked, StatusExpired:
		return &st, nil
	}
	return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

// ParseEnvironment reads an environment filter value; "all" and "" mean no constraint.
func ParseEnvironment(s string) (*Environment, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	e := Environment(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return nil, fmt.Errorf("%w: unknown environment %q", ErrInvalidInput, s)
	}
	return &e, nil
}
