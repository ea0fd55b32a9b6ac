package purpose

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

// Service handles purpose business logic.
type Service struct {
	purposes Repository
	audit    AuditRepository
	engine   *query.Engine[Purpose]
	logger   *slog.Logger
}

// NewService creates a new purpose service. audit may be nil.
func NewService(purposes Repository, audit AuditRepository, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{
		purposes: purposes,
		audit:    audit,
		engine:   query.New(QueryConfig(), opts...),
		logger:   logger,
	}
}

// CreateRequest describes a new purpose.
type CreateRequest struct {
	Name        string
	Description string
	LegalBasis  LegalBasis
	Status      Status
	Retention   int
}

// Create registers a purpose. Status defaults to draft and legal basis to consent.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Purpose, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Retention < 0 {
		return nil, ErrInvalidInput
	}
	basis := req.LegalBasis
	if basis == "" {
		basis = BasisConsent
	}
	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if !basis.Valid() || !status.Valid() {
		return nil, ErrInvalidInput
	}

	p := &Purpose{
		ID:          id.New(id.PrefixPurpose),
		TenantID:    tenantID,
		Name:        name,
		Description: req.Description,
		LegalBasis:  basis,
		Status:      status,
		Retention:   req.Retention,
		CreatedAt:   time.Now(),
	}
	if err := s.purposes.Create(ctx, tenantID, p); err != nil {
		return nil, fmt.Errorf("creating purpose: %w", err)
	}

	if s.audit != nil {
		details, _ := json.Marshal(map[string]any{"purpose_id": p.ID, "legal_basis": p.LegalBasis})
		if err := s.audit.Log(ctx, tenantID, &auditlog.Entry{
			ActionType:  auditlog.ActionPurposeCreated,
			Initiator:   auditlog.InitiatorAdmin,
			PurposeID:   &p.ID,
			PurposeName: &p.Name,
			Details:     string(details),
		}); err != nil {
			s.logger.Warn("failed to audit purpose creation", "purpose_id", p.ID, "error", err)
		}
	}
	return p, nil
}

// Get returns a purpose by ID.
func (s *Service) Get(ctx context.Context, tenantID, purposeID string) (*Purpose, error) {
	if purposeID == "" {
		return nil, ErrInvalidInput
	}
	p, err := s.purposes.Get(ctx, tenantID, purposeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPurposeNotFound
		}
		return nil, fmt.Errorf("getting purpose: %w", err)
	}
	return p, nil
}

// Query returns purposes matching opts.
func (s *Service) Query(ctx context.Context, tenantID string, opts QueryOptions) (query.Result[Purpose], error) {
	purposes, err := s.purposes.List(ctx, tenantID)
	if err != nil {
		return query.Result[Purpose]{}, fmt.Errorf("listing purposes: %w", err)
	}
	return s.engine.Query(purposes, opts.Params()), nil
}

// Describe lists the queryable purpose fields.
func (s *Service) Describe() query.Description {
	return s.engine.Describe()
}
