package auditlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
)

// Service handles audit log operations.
type Service struct {
	repo   Repository
	engine *query.Engine[Entry]
	logger *slog.Logger
}

// NewService creates a new audit log service.
func NewService(repo Repository, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{repo: repo, engine: query.New(QueryConfig(), opts...), logger: logger}
}

// Log appends an entry, assigning an ID and timestamp when missing.
func (s *Service) Log(ctx context.Context, tenantID string, entry *Entry) error {
	if entry == nil || !strings.Contains(entry.ActionType, ".") {
		return ErrInvalidInput
	}
	if entry.Initiator == "" {
		entry.Initiator = InitiatorSystem
	}
	if !entry.Initiator.Valid() {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = id.New(id.PrefixAuditEntry)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging audit entry: %w", err)
	}
	return nil
}

// Query returns audit entries matching opts.
func (s *Service) Query(ctx context.Context, tenantID string, opts QueryOptions) (query.Result[Entry], error) {
	entries, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return query.Result[Entry]{}, fmt.Errorf("listing audit entries: %w", err)
	}
	res := s.engine.Query(entries, opts.Params())
	s.logger.Debug("queried audit log", "tenant_id", tenantID, "snapshot", len(entries), "total", res.Total)
	return res, nil
}

// Describe lists the queryable audit log fields.
func (s *Service) Describe() query.Description {
	return s.engine.Describe()
}
