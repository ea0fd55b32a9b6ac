package dsr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository"
)

// Service handles data-subject request business logic.
type Service struct {
	requests Repository
	audit    AuditRepository
	engine   *query.Engine[Request]
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a new request service. audit may be nil.
func NewService(requests Repository, audit AuditRepository, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{
		requests: requests,
		audit:    audit,
		engine:   query.New(QueryConfig(), opts...),
		now:      time.Now,
		logger:   logger,
	}
}

// CreateRequest describes a new data-subject request.
type CreateRequest struct {
	UserID      string
	Email       string
	Name        string
	Type        RequestType
	Priority    Priority
	Description string
	RequestedAt time.Time
}

// TransitionRequest describes a status change.
type TransitionRequest struct {
	ID             string
	ToState        Status
	ResolutionNote *string
}

// Create opens a new pending request with a deadline ResponseWindow after it was made.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Request, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	now := s.now()
	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = now
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	rec := &Request{
		ID:          id.New(id.PrefixRequest),
		TenantID:    tenantID,
		UserID:      strings.TrimSpace(req.UserID),
		Email:       strings.TrimSpace(req.Email),
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Status:      StatusPending,
		Priority:    priority,
		Description: req.Description,
		RequestedAt: requestedAt,
		Deadline:    requestedAt.Add(ResponseWindow),
		ModifiedAt:  now,
	}

	if err := s.requests.Create(ctx, tenantID, rec); err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionDSRCreated, rec)
	return rec, nil
}

// Transition moves a request to a new status.
func (s *Service) Transition(ctx context.Context, tenantID string, req TransitionRequest) (*Request, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(current.Status, req.ToState, req.ResolutionNote); err != nil {
		return nil, err
	}

	now := s.now()
	updated := *current
	updated.Status = req.ToState
	updated.ModifiedAt = now
	if req.ResolutionNote != nil {
		note := strings.TrimSpace(*req.ResolutionNote)
		updated.ResolutionNote = &note
	}
	if req.ToState == StatusCompleted || req.ToState == StatusRejected {
		updated.CompletedAt = &now
	}

	if err := s.requests.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("transitioning request: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionDSRStatusChanged, &updated)
	return &updated, nil
}

// Get returns a request by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Request, error) {
	rec, err := s.requests.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("getting request: %w", err)
	}
	return rec, nil
}

// Query returns requests matching opts.
func (s *Service) Query(ctx context.Context, tenantID string, opts QueryOptions) (query.Result[Request], error) {
	snapshot, err := s.requests.List(ctx, tenantID)
	if err != nil {
		return query.Result[Request]{}, fmt.Errorf("listing requests: %w", err)
	}
	return s.engine.Query(snapshot, opts.Params()), nil
}

// Describe lists the queryable request fields.
func (s *Service) Describe() query.Description {
	return s.engine.Describe()
}

func (s *Service) logAudit(ctx context.Context, tenantID, action string, rec *Request) {
	if s.audit == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{
		"request_id": rec.ID,
		"type":       rec.Type,
		"status":     rec.Status,
	})
	err := s.audit.Log(ctx, tenantID, &auditlog.Entry{
		UserID:     rec.UserID,
		UserName:   rec.Name,
		ActionType: action,
		Initiator:  auditlog.InitiatorAdmin,
		Details:    string(details),
	})
	if err != nil {
		s.logger.Warn("failed to audit request change", "request_id", rec.ID, "action", action, "error", err)
	}
}
