package grievance

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

// Service handles grievance business logic.
type Service struct {
	grievances Repository
	audit      AuditRepository
	engine     *query.Engine[Grievance]
	logger     *slog.Logger
}

// NewService creates a new grievance service. audit may be nil.
func NewService(grievances Repository, audit AuditRepository, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{
		grievances: grievances,
		audit:      audit,
		engine:     query.New(QueryConfig(), opts...),
		logger:     logger,
	}
}

// SubmitRequest describes a new grievance.
type SubmitRequest struct {
	UserID       string
	Subject      string
	Description  string
	Organization string
	Priority     Priority
	SubmittedAt  time.Time
}

// TransitionRequest describes a status change.
type TransitionRequest struct {
	ID         string
	ToState    Status
	Resolution *string
}

var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusEscalated, StatusClosed},
	StatusInProgress: {StatusEscalated, StatusResolved, StatusClosed},
	StatusEscalated:  {StatusInProgress, StatusResolved},
	StatusResolved:   {StatusClosed, StatusOpen},
	StatusClosed:     {StatusOpen},
}

// Submit records a new open grievance.
func (s *Service) Submit(ctx context.Context, tenantID string, req SubmitRequest) (*Grievance, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.UserID) == "" {
		return nil, ErrInvalidInput
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	submitted := req.SubmittedAt
	if submitted.IsZero() {
		submitted = now
	}

	g := &Grievance{
		ID:           id.New(id.PrefixGrievance),
		TenantID:     tenantID,
		UserID:       strings.TrimSpace(req.UserID),
		Subject:      strings.TrimSpace(req.Subject),
		Description:  req.Description,
		Organization: strings.TrimSpace(req.Organization),
		Status:       StatusOpen,
		Priority:     priority,
		SubmittedAt:  submitted,
		ModifiedAt:   now,
	}
	if err := s.grievances.Create(ctx, tenantID, g); err != nil {
		return nil, fmt.Errorf("creating grievance: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionGrievanceSubmitted, g)
	return g, nil
}

// Transition moves a grievance to a new status.
func (s *Service) Transition(ctx context.Context, tenantID string, req TransitionRequest) (*Grievance, error) {
	current, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, to := range transitions[current.Status] {
		if to == req.ToState {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}
	if req.ToState == StatusResolved && (req.Resolution == nil || strings.TrimSpace(*req.Resolution) == "") {
		return nil, ErrMissingResolution
	}

	now := time.Now()
	updated := *current
	updated.Status = req.ToState
	updated.ModifiedAt = now
	if req.Resolution != nil {
		resolution := strings.TrimSpace(*req.Resolution)
		updated.Resolution = &resolution
	}
	switch req.ToState {
	case StatusResolved:
		updated.ResolvedAt = &now
	case StatusOpen:
		updated.ResolvedAt = nil
	}

	if err := s.grievances.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGrievanceNotFound
		}
		return nil, fmt.Errorf("transitioning grievance: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionGrievanceUpdated, &updated)
	return &updated, nil
}

// Get returns a grievance by ID.
func (s *Service) Get(ctx context.Context, tenantID, grievanceID string) (*Grievance, error) {
	if grievanceID == "" {
		return nil, ErrInvalidInput
	}
	g, err := s.grievances.Get(ctx, tenantID, grievanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGrievanceNotFound
		}
		return nil, fmt.Errorf("getting grievance: %w", err)
	}
	return g, nil
}

// Query returns grievances matching opts.
func (s *Service) Query(ctx context.Context, tenantID string, opts QueryOptions) (query.Result[Grievance], error) {
	snapshot, err := s.grievances.List(ctx, tenantID)
	if err != nil {
		return query.Result[Grievance]{}, fmt.Errorf("listing grievances: %w", err)
	}
	return s.engine.Query(snapshot, opts.Params()), nil
}

// Describe lists the queryable grievance fields.
func (s *Service) Describe() query.Description {
	return s.engine.Describe()
}

func (s *Service) logAudit(ctx context.Context, tenantID, action string, g *Grievance) {
	if s.audit == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{"grievance_id": g.ID, "status": g.Status})
	if err := s.audit.Log(ctx, tenantID, &auditlog.Entry{
		UserID:     g.UserID,
		ActionType: action,
		Initiator:  auditlog.InitiatorUser,
		Details:    string(details),
	}); err != nil {
		s.logger.Warn("failed to audit grievance change", "grievance_id", g.ID, "error", err)
	}
}
