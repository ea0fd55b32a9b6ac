package grievance

import (
	"context"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
)

// Repository provides persistence for grievances.
type Repository interface {
	Create(ctx context.Context, tenantID string, g *Grievance) error
	Get(ctx context.Context, tenantID, id string) (*Grievance, error)
	Update(ctx context.Context, tenantID string, g *Grievance) error
	List(ctx context.Context, tenantID string) ([]Grievance, error)
}

// AuditRepository records grievance lifecycle events.
type AuditRepository interface {
	Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
}
