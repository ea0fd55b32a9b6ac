package apikey

import (
	"context"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
)

// Repository provides persistence for API keys.
type Repository interface {
	Create(ctx context.Context, tenantID string, key *Key) error
	Get(ctx context.Context, tenantID, id string) (*Key, error)
	// GetByHash looks a key up across tenants by the hash of its secret.
	GetByHash(ctx context.Context, hash string) (*Key, error)
	Update(ctx context.Context, tenantID string, key *Key) error
	List(ctx context.Context, tenantID string) ([]Key, error)
}

// AuditRepository records key lifecycle events.
type AuditRepository interface {
	Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
}
