package datamap

import "context"

// Store persists one kind of data map entry.
type Store[T any] interface {
	Create(ctx context.Context, tenantID string, v *T) error
	Get(ctx context.Context, tenantID, id string) (*T, error)
	Update(ctx context.Context, tenantID string, v *T) error
	List(ctx context.Context, tenantID string) ([]T, error)
}

// Stores groups the repositories the data map service needs.
type Stores struct {
	Categories Store[Category]
	Processors Store[Processor]
	Storages   Store[Storage]
	Flows      Store[Flow]
}
