package dsr

import (
	"context"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
)

// Repository provides persistence for data-subject requests.
type Repository interface {
	Create(ctx context.Context, tenantID string, req *Request) error
	Get(ctx context.Context, tenantID, id string) (*Request, error)
	Update(ctx context.Context, tenantID string, req *Request) error
	List(ctx context.Context, tenantID string) ([]Request, error)
}

// AuditRepository records request lifecycle events.
type AuditRepository interface {
	Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
}
