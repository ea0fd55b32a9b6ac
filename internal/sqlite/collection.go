package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/repository"
)

// Collection stores one entity kind as JSON documents.
// List returns documents in insertion order.
type Collection[T any] struct {
	db   *DB
	kind string
	idOf func(*T) string
}

// NewCollection creates a document collection for kind.
func NewCollection[T any](db *DB, kind string, idOf func(*T) string) *Collection[T] {
	return &Collection[T]{db: db, kind: kind, idOf: idOf}
}

// Create inserts a new document.
func (c *Collection[T]) Create(ctx context.Context, tenantID string, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.kind, err)
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (tenant_id, kind, id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tenantID, c.kind, c.idOf(v), string(body), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create %s: %w", c.kind, err)
	}
	return nil
}

// Get retrieves a document by ID.
func (c *Collection[T]) Get(ctx context.Context, tenantID, id string) (*T, error) {
	var body string
	err := c.db.QueryRowContext(ctx, `
		SELECT body FROM documents
		WHERE tenant_id = ? AND kind = ? AND id = ?
	`, tenantID, c.kind, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c.kind, err)
	}

	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.kind, err)
	}
	return &v, nil
}

// Update replaces an existing document.
func (c *Collection[T]) Update(ctx context.Context, tenantID string, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.kind, err)
	}

	result, err := c.db.ExecContext(ctx, `
		UPDATE documents SET body = ?, updated_at = ?
		WHERE tenant_id = ? AND kind = ? AND id = ?
	`, string(body), time.Now(), tenantID, c.kind, c.idOf(v))
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", c.kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns every document of this kind for the tenant.
func (c *Collection[T]) List(ctx context.Context, tenantID string) ([]T, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT body FROM documents
		WHERE tenant_id = ? AND kind = ?
		ORDER BY seq ASC
	`, tenantID, c.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.kind, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", c.kind, err)
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", c.kind, err)
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", c.kind, err)
	}
	return out, nil
}

// NewRequestRepository stores data-subject requests.
func NewRequestRepository(db *DB) *Collection[dsr.Request] {
	return NewCollection(db, "dsr_request", func(r *dsr.Request) string { return r.ID })
}

// NewGrievanceRepository stores grievances.
func NewGrievanceRepository(db *DB) *Collection[grievance.Grievance] {
	return NewCollection(db, "grievance", func(g *grievance.Grievance) string { return g.ID })
}

// NewPurposeRepository stores purposes.
func NewPurposeRepository(db *DB) *Collection[purpose.Purpose] {
	return NewCollection(db, "purpose", func(p *purpose.Purpose) string { return p.ID })
}

// NewWebhookRepository stores webhooks.
func NewWebhookRepository(db *DB) *Collection[webhook.Webhook] {
	return NewCollection(db, "webhook", func(w *webhook.Webhook) string { return w.ID })
}

// NewDataMapStores returns the four data map collections.
func NewDataMapStores(db *DB) datamap.Stores {
	return datamap.Stores{
		Categories: NewCollection(db, "data_category", func(c *datamap.Category) string { return c.ID }),
		Processors: NewCollection(db, "data_processor", func(p *datamap.Processor) string { return p.ID }),
		Storages:   NewCollection(db, "data_storage", func(s *datamap.Storage) string { return s.ID }),
		Flows:      NewCollection(db, "data_flow", func(f *datamap.Flow) string { return f.ID }),
	}
}
