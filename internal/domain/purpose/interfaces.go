package purpose

import (
	"context"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
)

// Repository provides persistence for purposes.
type Repository interface {
	Create(ctx context.Context, tenantID string, p *Purpose) error
	Get(ctx context.Context, tenantID, id string) (*Purpose, error)
	Update(ctx context.Context, tenantID string, p *Purpose) error
	List(ctx context.Context, tenantID string) ([]Purpose, error)
}

// AuditRepository records purpose changes.
type AuditRepository interface {
	Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
}
