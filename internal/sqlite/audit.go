package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/repository"
)

// AuditRepository implements auditlog.Repository for SQLite
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log inserts a new audit entry
func (r *AuditRepository) Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error {
	if entry.ID == "" {
		entry.ID = id.New(id.PrefixAuditEntry)
	}
	createdAt := entry.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO audit_log (
			id, tenant_id, user_id, user_name, action_type, initiator,
			source_ip, region, purpose_id, purpose_name, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		tenantID,
		entry.UserID,
		entry.UserName,
		entry.ActionType,
		string(entry.Initiator),
		entry.SourceIP,
		entry.Region,
		entry.PurposeID,
		entry.PurposeName,
		entry.Details,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to log audit entry: %w", err)
	}

	entry.TenantID = tenantID
	entry.Timestamp = createdAt

	return nil
}

// List returns the tenant's audit entries, newest first
func (r *AuditRepository) List(ctx context.Context, tenantID string) ([]auditlog.Entry, error) {
	query := `
		SELECT
			id, tenant_id, user_id, user_name, action_type, initiator,
			source_ip, region, purpose_id, purpose_name, details, created_at
		FROM audit_log
		WHERE tenant_id = ?
		ORDER BY created_at DESC, seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []auditlog.Entry{}
	for rows.Next() {
		var entry auditlog.Entry
		var initiator string
		var userID, userName, sourceIP, region, details sql.NullString
		var purposeID, purposeName sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&userID,
			&userName,
			&entry.ActionType,
			&initiator,
			&sourceIP,
			&region,
			&purposeID,
			&purposeName,
			&details,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Initiator = auditlog.Initiator(initiator)
		entry.UserID = userID.String
		entry.UserName = userName.String
		entry.SourceIP = sourceIP.String
		entry.Region = region.String
		entry.Details = details.String
		if purposeID.Valid {
			entry.PurposeID = &purposeID.String
		}
		if purposeName.Valid {
			entry.PurposeName = &purposeName.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}
