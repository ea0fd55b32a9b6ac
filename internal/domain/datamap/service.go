package datamap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository"
)

// Service manages the data map.
type Service struct {
	stores     Stores
	categories *query.Engine[Category]
	processors *query.Engine[Processor]
	storages   *query.Engine[Storage]
	flows      *query.Engine[Flow]
	logger     *slog.Logger
}

// NewService creates a new data map service.
func NewService(stores Stores, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{
		stores:     stores,
		categories: query.New(CategoryConfig(), opts...),
		processors: query.New(ProcessorConfig(), opts...),
		storages:   query.New(StorageConfig(), opts...),
		flows:      query.New(FlowConfig(), opts...),
		logger:     logger,
	}
}

// CreateCategory adds a data category. Sensitivity defaults to medium.
func (s *Service) CreateCategory(ctx context.Context, tenantID string, c Category) (*Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, ErrInvalidInput
	}
	if c.Sensitivity == "" {
		c.Sensitivity = SensitivityMedium
	}
	if !c.Sensitivity.Valid() {
		return nil, fmt.Errorf("%w: sensitivity %q", ErrInvalidInput, c.Sensitivity)
	}
	c.ID = id.New(id.PrefixCategory)
	c.TenantID = tenantID
	c.CreatedAt = time.Now()
	if err := s.stores.Categories.Create(ctx, tenantID, &c); err != nil {
		return nil, fmt.Errorf("creating data category: %w", err)
	}
	return &c, nil
}

// CreateProcessor adds a processor. Every referenced category must exist.
func (s *Service) CreateProcessor(ctx context.Context, tenantID string, p Processor) (*Processor, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || strings.TrimSpace(p.Type) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkCategories(ctx, tenantID, p.Categories); err != nil {
		return nil, err
	}
	p.ID = id.New(id.PrefixProcessor)
	p.TenantID = tenantID
	p.CreatedAt = time.Now()
	p.Categories = nonNil(p.Categories)
	if err := s.stores.Processors.Create(ctx, tenantID, &p); err != nil {
		return nil, fmt.Errorf("creating data processor: %w", err)
	}
	return &p, nil
}

// CreateStorage adds a storage location. Every referenced category must exist.
func (s *Service) CreateStorage(ctx context.Context, tenantID string, st Storage) (*Storage, error) {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" || strings.TrimSpace(st.Type) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkCategories(ctx, tenantID, st.Categories); err != nil {
		return nil, err
	}
	st.ID = id.New(id.PrefixStorage)
	st.TenantID = tenantID
	st.CreatedAt = time.Now()
	st.Categories = nonNil(st.Categories)
	if err := s.stores.Storages.Create(ctx, tenantID, &st); err != nil {
		return nil, fmt.Errorf("creating data storage: %w", err)
	}
	return &st, nil
}

// CreateFlow adds a data flow. Every referenced category must exist.
func (s *Service) CreateFlow(ctx context.Context, tenantID string, f Flow) (*Flow, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" || f.Source == "" || f.Destination == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkCategories(ctx, tenantID, f.Categories); err != nil {
		return nil, err
	}
	f.ID = id.New(id.PrefixFlow)
	f.TenantID = tenantID
	f.CreatedAt = time.Now()
	f.Categories = nonNil(f.Categories)
	if err := s.stores.Flows.Create(ctx, tenantID, &f); err != nil {
		return nil, fmt.Errorf("creating data flow: %w", err)
	}
	return &f, nil
}

// GetCategory returns a data category by ID.
func (s *Service) GetCategory(ctx context.Context, tenantID, categoryID string) (*Category, error) {
	return get(ctx, s.stores.Categories, tenantID, categoryID)
}

// QueryCategories returns categories matching opts.
func (s *Service) QueryCategories(ctx context.Context, tenantID string, opts CategoryOptions) (query.Result[Category], error) {
	return run(ctx, s.stores.Categories, s.categories, tenantID, opts.Params())
}

// QueryProcessors returns processors matching opts.
func (s *Service) QueryProcessors(ctx context.Context, tenantID string, opts HoldingOptions) (query.Result[Processor], error) {
	return run(ctx, s.stores.Processors, s.processors, tenantID, opts.Params())
}

// QueryStorages returns storages matching opts.
func (s *Service) QueryStorages(ctx context.Context, tenantID string, opts HoldingOptions) (query.Result[Storage], error) {
	return run(ctx, s.stores.Storages, s.storages, tenantID, opts.Params())
}

// QueryFlows returns flows matching opts.
func (s *Service) QueryFlows(ctx context.Context, tenantID string, opts FlowOptions) (query.Result[Flow], error) {
	return run(ctx, s.stores.Flows, s.flows, tenantID, opts.Params())
}

// Describe lists the queryable fields of every data map entity.
func (s *Service) Describe() []query.Description {
	return []query.Description{
		s.categories.Describe(),
		s.processors.Describe(),
		s.storages.Describe(),
		s.flows.Describe(),
	}
}

func (s *Service) checkCategories(ctx context.Context, tenantID string, ids []string) error {
	for _, categoryID := range ids {
		if _, err := s.GetCategory(ctx, tenantID, categoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
			}
			return err
		}
	}
	return nil
}

func get[T any](ctx context.Context, store Store[T], tenantID, entryID string) (*T, error) {
	if entryID == "" {
		return nil, ErrInvalidInput
	}
	v, err := store.Get(ctx, tenantID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting data map entry: %w", err)
	}
	return v, nil
}

func run[T any](ctx context.Context, store Store[T], engine *query.Engine[T], tenantID string, p query.Params) (query.Result[T], error) {
	records, err := store.List(ctx, tenantID)
	if err != nil {
		return query.Result[T]{}, fmt.Errorf("listing %s: %w", engine.Entity(), err)
	}
	return engine.Query(records, p), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
