package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/repository"
)

// APIKeyRepository implements apikey.Repository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

const apiKeyColumns = `
	id, tenant_id, name, prefix, key_hash, scopes, environment, status,
	created_at, last_used_at, expires_at, revoked_at
`

// Create inserts a new key
func (r *APIKeyRepository) Create(ctx context.Context, tenantID string, key *apikey.Key) error {
	scopes, err := json.Marshal(key.Scopes)
	if err != nil {
		return fmt.Errorf("failed to encode scopes: %w", err)
	}

	query := `INSERT INTO api_keys (` + apiKeyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		key.ID,
		tenantID,
		key.Name,
		key.Prefix,
		key.Hash,
		string(scopes),
		string(key.Environment),
		string(key.Status),
		key.CreatedAt,
		nullTime(key.LastUsedAt),
		nullTime(key.ExpiresAt),
		nullTime(key.RevokedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// Get retrieves a key by ID
func (r *APIKeyRepository) Get(ctx context.Context, tenantID, id string) (*apikey.Key, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ? AND tenant_id = ?`, id, tenantID)
	return scanKey(row)
}

// GetByHash retrieves a key by the hash of its secret, across tenants
func (r *APIKeyRepository) GetByHash(ctx context.Context, hash string) (*apikey.Key, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, hash)
	return scanKey(row)
}

// Update writes the mutable fields of a key
func (r *APIKeyRepository) Update(ctx context.Context, tenantID string, key *apikey.Key) error {
	scopes, err := json.Marshal(key.Scopes)
	if err != nil {
		return fmt.Errorf("failed to encode scopes: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE api_keys
		SET name = ?, scopes = ?, status = ?, last_used_at = ?, expires_at = ?, revoked_at = ?
		WHERE id = ? AND tenant_id = ?
	`,
		key.Name,
		string(scopes),
		string(key.Status),
		nullTime(key.LastUsedAt),
		nullTime(key.ExpiresAt),
		nullTime(key.RevokedAt),
		key.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update api key: %w", err)
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

// List returns the tenant's keys, oldest first
func (r *APIKeyRepository) List(ctx context.Context, tenantID string) ([]apikey.Key, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE tenant_id = ? ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	keys := []apikey.Key{}
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating api key rows: %w", err)
	}
	return keys, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKey(row scanner) (*apikey.Key, error) {
	var key apikey.Key
	var scopes, environment, status string
	var lastUsed, expires, revoked sql.NullTime
	err := row.Scan(
		&key.ID,
		&key.TenantID,
		&key.Name,
		&key.Prefix,
		&key.Hash,
		&scopes,
		&environment,
		&status,
		&key.CreatedAt,
		&lastUsed,
		&expires,
		&revoked,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan api key: %w", err)
	}

	if err := json.Unmarshal([]byte(scopes), &key.Scopes); err != nil {
		return nil, fmt.Errorf("failed to decode scopes: %w", err)
	}
	key.Environment = apikey.Environment(environment)
	key.Status = apikey.Status(status)
	key.LastUsedAt = timePtr(lastUsed)
	key.ExpiresAt = timePtr(expires)
	key.RevokedAt = timePtr(revoked)
	return &key, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
