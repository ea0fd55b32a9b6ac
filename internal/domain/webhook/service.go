package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository"
)

// Service handles webhook business logic.
type Service struct {
	webhooks Repository
	audit    AuditRepository
	engine   *query.Engine[Webhook]
	logger   *slog.Logger
}

// NewService creates a new webhook service. audit may be nil.
func NewService(webhooks Repository, audit AuditRepository, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{
		webhooks: webhooks,
		audit:    audit,
		engine:   query.New(QueryConfig(), opts...),
		logger:   logger,
	}
}

// CreateRequest describes a new webhook.
type CreateRequest struct {
	URL         string
	Description string
	Events      []string
}

// Create registers an active webhook.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Webhook, error) {
	endpoint := strings.TrimSpace(req.URL)
	if err := ValidateURL(endpoint); err != nil {
		return nil, err
	}
	if err := ValidateEvents(req.Events); err != nil {
		return nil, err
	}

	now := time.Now()
	events := slices.Clone(req.Events)
	slices.Sort(events)
	w := &Webhook{
		ID:          id.New(id.PrefixWebhook),
		TenantID:    tenantID,
		URL:         endpoint,
		Description: req.Description,
		Events:      slices.Compact(events),
		Status:      StatusActive,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if err := s.webhooks.Create(ctx, tenantID, w); err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionWebhookCreated, w)
	return w, nil
}

// SetStatus pauses, resumes, or flags a webhook as failing.
func (s *Service) SetStatus(ctx context.Context, tenantID, webhookID string, status Status) (*Webhook, error) {
	if !status.Valid() {
		return nil, ErrInvalidInput
	}
	w, err := s.Get(ctx, tenantID, webhookID)
	if err != nil {
		return nil, err
	}
	if w.Status == status {
		return w, nil
	}

	w.Status = status
	w.ModifiedAt = time.Now()
	if err := s.webhooks.Update(ctx, tenantID, w); err != nil {
		return nil, fmt.Errorf("updating webhook: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionWebhookUpdated, w)
	return w, nil
}

// Get returns a webhook by ID.
func (s *Service) Get(ctx context.Context, tenantID, webhookID string) (*Webhook, error) {
	if webhookID == "" {
		return nil, ErrInvalidInput
	}
	w, err := s.webhooks.Get(ctx, tenantID, webhookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWebhookNotFound
		}
		return nil, fmt.Errorf("getting webhook: %w", err)
	}
	return w, nil
}

// Query returns webhooks matching opts.
func (s *Service) Query(ctx context.Context, tenantID string, opts QueryOptions) (query.Result[Webhook], error) {
	hooks, err := s.webhooks.List(ctx, tenantID)
	if err != nil {
		return query.Result[Webhook]{}, fmt.Errorf("listing webhooks: %w", err)
	}
	return s.engine.Query(hooks, opts.Params()), nil
}

// Describe lists the queryable webhook fields.
func (s *Service) Describe() query.Description {
	return s.engine.Describe()
}

func (s *Service) logAudit(ctx context.Context, tenantID, action string, w *Webhook) {
	if s.audit == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{"webhook_id": w.ID, "status": w.Status})
	if err := s.audit.Log(ctx, tenantID, &auditlog.Entry{
		ActionType: action,
		Initiator:  auditlog.InitiatorAdmin,
		Details:    string(details),
	}); err != nil {
		s.logger.Warn("failed to audit webhook change", "webhook_id", w.ID, "error", err)
	}
}
