package mocks

import (
	"context"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/stretchr/testify/mock"
)

// Store is a mock for the document repositories shared by most entities.
type Store[T any] struct {
	mock.Mock
}

func (m *Store[T]) Create(ctx context.Context, tenantID string, v *T) error {
	args := m.Called(ctx, tenantID, v)
	return args.Error(0)
}

func (m *Store[T]) Get(ctx context.Context, tenantID, id string) (*T, error) {
	args := m.Called(ctx, tenantID, id)
	if v, ok := args.Get(0).(*T); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store[T]) Update(ctx context.Context, tenantID string, v *T) error {
	args := m.Called(ctx, tenantID, v)
	return args.Error(0)
}

func (m *Store[T]) List(ctx context.Context, tenantID string) ([]T, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]T); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AuditRepository is a mock for auditlog.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *AuditRepository) List(ctx context.Context, tenantID string) ([]auditlog.Entry, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]auditlog.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for apikey.Repository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, tenantID string, key *apikey.Key) error {
	args := m.Called(ctx, tenantID, key)
	return args.Error(0)
}

func (m *APIKeyRepository) Get(ctx context.Context, tenantID, id string) (*apikey.Key, error) {
	args := m.Called(ctx, tenantID, id)
	if key, ok := args.Get(0).(*apikey.Key); ok {
		return key, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *APIKeyRepository) GetByHash(ctx context.Context, hash string) (*apikey.Key, error) {
	args := m.Called(ctx, hash)
	if key, ok := args.Get(0).(*apikey.Key); ok {
		return key, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *APIKeyRepository) Update(ctx context.Context, tenantID string, key *apikey.Key) error {
	args := m.Called(ctx, tenantID, key)
	return args.Error(0)
}

func (m *APIKeyRepository) List(ctx context.Context, tenantID string) ([]apikey.Key, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]apikey.Key); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
