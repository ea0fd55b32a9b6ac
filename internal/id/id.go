// Package id generates the prefixed identifiers used by every consentdesk entity.
//
// IDs are TypeIDs: a short entity prefix, an underscore, and a K-sortable
// UUIDv7 suffix, e.g. "dsr_01h2xcejqtf2nbrexx3vqjhp41". They are assigned once
// at creation and never reused.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in an ID.
type Prefix string

const (
	PrefixAPIKey     Prefix = "key"
	PrefixAuditEntry Prefix = "audit"
	PrefixRequest    Prefix = "dsr"
	PrefixGrievance  Prefix = "grv"
	PrefixPurpose    Prefix = "purp"
	PrefixWebhook    Prefix = "whk"
	PrefixCategory   Prefix = "dcat"
	PrefixProcessor  Prefix = "dproc"
	PrefixStorage    Prefix = "dstore"
	PrefixFlow       Prefix = "dflow"
)

// New generates an ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) string {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// Check validates s as an ID carrying the expected prefix.
func Check(s string, expected Prefix) error {
	if s == "" {
		return fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return fmt.Errorf("id: parse %q: %w", s, err)
	}
	if Prefix(tid.Prefix()) != expected {
		return fmt.Errorf("id: expected prefix %q, got %q", expected, tid.Prefix())
	}
	return nil
}
