// Package app wires the SQLite repositories into the domain services.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/consentdesk/internal/dashboard"
	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/mcp"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/sqlite"
)

// App holds an open database and the services built on it.
type App struct {
	DB         *sqlite.DB
	Audit      *auditlog.Service
	Requests   *dsr.Service
	Grievances *grievance.Service
	Keys       *apikey.Service
	Purposes   *purpose.Service
	Webhooks   *webhook.Service
	DataMap    *datamap.Service
	Dashboard  *dashboard.Service
}

// Open opens (creating if needed) the database at path, migrates it, and
// builds every service. opts configure each service's query engine.
func Open(path string, logger *slog.Logger, opts ...query.Option) (*App, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, logger, opts...), nil
}

// New builds every service on an already migrated db.
func New(db *sqlite.DB, logger *slog.Logger, opts ...query.Option) *App {
	audit := auditlog.NewService(sqlite.NewAuditRepository(db), logger, opts...)

	a := &App{
		DB:         db,
		Audit:      audit,
		Requests:   dsr.NewService(sqlite.NewRequestRepository(db), audit, logger, opts...),
		Grievances: grievance.NewService(sqlite.NewGrievanceRepository(db), audit, logger, opts...),
		Keys:       apikey.NewService(sqlite.NewAPIKeyRepository(db), audit, logger, opts...),
		Purposes:   purpose.NewService(sqlite.NewPurposeRepository(db), audit, logger, opts...),
		Webhooks:   webhook.NewService(sqlite.NewWebhookRepository(db), audit, logger, opts...),
		DataMap:    datamap.NewService(sqlite.NewDataMapStores(db), logger, opts...),
	}
	a.Dashboard = dashboard.NewService(dashboard.Sources{
		Requests:   a.Requests,
		Grievances: a.Grievances,
		Audit:      a.Audit,
		Keys:       a.Keys,
		Purposes:   a.Purposes,
		Webhooks:   a.Webhooks,
	}, logger)
	return a
}

// MCPServices exposes the services to the MCP layer.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Requests:   a.Requests,
		Grievances: a.Grievances,
		Audit:      a.Audit,
		Keys:       a.Keys,
		Purposes:   a.Purposes,
		Webhooks:   a.Webhooks,
		DataMap:    a.DataMap,
		Dashboard:  a.Dashboard,
	}
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
