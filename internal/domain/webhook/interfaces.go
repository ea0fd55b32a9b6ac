package webhook

import (
	"context"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
)

// Repository provides persistence for webhooks.
type Repository interface {
	Create(ctx context.Context, tenantID string, w *Webhook) error
	Get(ctx context.Context, tenantID, id string) (*Webhook, error)
	Update(ctx context.Context, tenantID string, w *Webhook) error
	List(ctx context.Context, tenantID string) ([]Webhook, error)
}

// AuditRepository records webhook changes.
type AuditRepository interface {
	Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
}
