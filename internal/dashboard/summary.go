// Package dashboard aggregates per-entity counts for the admin overview.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/query"
	"golang.org/x/sync/errgroup"
)

// RequestQuerier queries data-subject requests.
type RequestQuerier interface {
	Query(ctx context.Context, tenantID string, opts dsr.QueryOptions) (query.Result[dsr.Request], error)
}

// GrievanceQuerier queries grievances.
type GrievanceQuerier interface {
	Query(ctx context.Context, tenantID string, opts grievance.QueryOptions) (query.Result[grievance.Grievance], error)
}

// AuditQuerier queries the audit log.
type AuditQuerier interface {
	Query(ctx context.Context, tenantID string, opts auditlog.QueryOptions) (query.Result[auditlog.Entry], error)
}

// KeyQuerier queries API keys.
type KeyQuerier interface {
	Query(ctx context.Context, tenantID string, opts apikey.QueryOptions) (query.Result[apikey.Key], error)
}

// PurposeQuerier queries purposes.
type PurposeQuerier interface {
	Query(ctx context.Context, tenantID string, opts purpose.QueryOptions) (query.Result[purpose.Purpose], error)
}

// WebhookQuerier queries webhooks.
type WebhookQuerier interface {
	Query(ctx context.Context, tenantID string, opts webhook.QueryOptions) (query.Result[webhook.Webhook], error)
}

// Sources are the services a summary is computed from.
type Sources struct {
	Requests   RequestQuerier
	Grievances GrievanceQuerier
	Audit      AuditQuerier
	Keys       KeyQuerier
	Purposes   PurposeQuerier
	Webhooks   WebhookQuerier
}

// Summary counts records per entity.
type Summary struct {
	Requests          int `json:"requests"`
	PendingRequests   int `json:"pending_requests"`
	Grievances        int `json:"grievances"`
	OpenGrievances    int `json:"open_grievances"`
	AuditEventsToday  int `json:"audit_events_today"`
	ActiveKeys        int `json:"active_keys"`
	ActivePurposes    int `json:"active_purposes"`
	FailingWebhooks   int `json:"failing_webhooks"`
	ConsentEventsWeek int `json:"consent_events_this_week"`
}

// Service computes dashboard summaries.
type Service struct {
	src    Sources
	logger *slog.Logger
}

// NewService creates a new dashboard service.
func NewService(src Sources, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{src: src, logger: logger}
}

// countOnly asks for the smallest page; only Total is read.
var countOnly = &query.PageRequest{MaxResults: 1}

func ptr[T any](v T) *T { return &v }

// Summarize runs every count concurrently. The first failure cancels the rest.
func (s *Service) Summarize(ctx context.Context, tenantID string) (*Summary, error) {
	var sum Summary
	g, ctx := errgroup.WithContext(ctx)

	count := func(name string, dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return fmt.Errorf("counting %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	count("requests", &sum.Requests, func(ctx context.Context) (int, error) {
		res, err := s.src.Requests.Query(ctx, tenantID, dsr.QueryOptions{Page: countOnly})
		return res.Total, err
	})
	count("pending requests", &sum.PendingRequests, func(ctx context.Context) (int, error) {
		res, err := s.src.Requests.Query(ctx, tenantID, dsr.QueryOptions{Status: ptr(dsr.StatusPending), Page: countOnly})
		return res.Total, err
	})
	count("grievances", &sum.Grievances, func(ctx context.Context) (int, error) {
		res, err := s.src.Grievances.Query(ctx, tenantID, grievance.QueryOptions{Page: countOnly})
		return res.Total, err
	})
	count("open grievances", &sum.OpenGrievances, func(ctx context.Context) (int, error) {
		res, err := s.src.Grievances.Query(ctx, tenantID, grievance.QueryOptions{Status: ptr(grievance.StatusOpen), Page: countOnly})
		return res.Total, err
	})
	count("audit events", &sum.AuditEventsToday, func(ctx context.Context) (int, error) {
		res, err := s.src.Audit.Query(ctx, tenantID, auditlog.QueryOptions{Window: ptr(query.Today), Page: countOnly})
		return res.Total, err
	})
	count("consent events", &sum.ConsentEventsWeek, func(ctx context.Context) (int, error) {
		res, err := s.src.Audit.Query(ctx, tenantID, auditlog.QueryOptions{Category: "consent", Window: ptr(query.ThisWeek), Page: countOnly})
		return res.Total, err
	})
	count("api keys", &sum.ActiveKeys, func(ctx context.Context) (int, error) {
		res, err := s.src.Keys.Query(ctx, tenantID, apikey.QueryOptions{Status: ptr(apikey.StatusActive), Page: countOnly})
		return res.Total, err
	})
	count("purposes", &sum.ActivePurposes, func(ctx context.Context) (int, error) {
		res, err := s.src.Purposes.Query(ctx, tenantID, purpose.QueryOptions{Status: ptr(purpose.StatusActive), Page: countOnly})
		return res.Total, err
	})
	count("webhooks", &sum.FailingWebhooks, func(ctx context.Context) (int, error) {
		res, err := s.src.Webhooks.Query(ctx, tenantID, webhook.QueryOptions{Status: ptr(webhook.StatusFailing), Page: countOnly})
		return res.Total, err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug("computed dashboard summary", "tenant_id", tenantID, "requests", sum.Requests, "grievances", sum.Grievances)
	return &sum, nil
}
