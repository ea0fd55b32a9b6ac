package auditlog

import "context"

// Repository provides persistence operations for audit log entries.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *Entry) error
	List(ctx context.Context, tenantID string) ([]Entry, error)
}
