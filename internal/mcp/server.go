package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/consentdesk/internal/dashboard"
	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/query"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// RequestService defines data-subject request operations needed by MCP.
type RequestService interface {
	Create(ctx context.Context, tenantID string, req dsr.CreateRequest) (*dsr.Request, error)
	Transition(ctx context.Context, tenantID string, req dsr.TransitionRequest) (*dsr.Request, error)
	Get(ctx context.Context, tenantID, id string) (*dsr.Request, error)
	Query(ctx context.Context, tenantID string, opts dsr.QueryOptions) (query.Result[dsr.Request], error)
	Describe() query.Description
}

// GrievanceService defines grievance operations needed by MCP.
type GrievanceService interface {
	Submit(ctx context.Context, tenantID string, req grievance.SubmitRequest) (*grievance.Grievance, error)
	Transition(ctx context.Context, tenantID string, req grievance.TransitionRequest) (*grievance.Grievance, error)
	Get(ctx context.Context, tenantID, id string) (*grievance.Grievance, error)
	Query(ctx context.Context, tenantID string, opts grievance.QueryOptions) (query.Result[grievance.Grievance], error)
	Describe() query.Description
}

// AuditService defines audit log operations needed by MCP.
type AuditService interface {
	Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
	Query(ctx context.Context, tenantID string, opts auditlog.QueryOptions) (query.Result[auditlog.Entry], error)
	Describe() query.Description
}

// KeyService defines API key operations needed by MCP.
type KeyService interface {
	Create(ctx context.Context, tenantID string, req apikey.CreateRequest) (*apikey.Created, error)
	Revoke(ctx context.Context, tenantID, id string) (*apikey.Key, error)
	Query(ctx context.Context, tenantID string, opts apikey.QueryOptions) (query.Result[apikey.Key], error)
	Describe() query.Description
}

// PurposeService defines purpose operations needed by MCP.
type PurposeService interface {
	Create(ctx context.Context, tenantID string, req purpose.CreateRequest) (*purpose.Purpose, error)
	Query(ctx context.Context, tenantID string, opts purpose.QueryOptions) (query.Result[purpose.Purpose], error)
	Describe() query.Description
}

// WebhookService defines webhook operations needed by MCP.
type WebhookService interface {
	Create(ctx context.Context, tenantID string, req webhook.CreateRequest) (*webhook.Webhook, error)
	SetStatus(ctx context.Context, tenantID, id string, status webhook.Status) (*webhook.Webhook, error)
	Query(ctx context.Context, tenantID string, opts webhook.QueryOptions) (query.Result[webhook.Webhook], error)
	Describe() query.Description
}

// DataMapService defines data map operations needed by MCP.
type DataMapService interface {
	CreateCategory(ctx context.Context, tenantID string, c datamap.Category) (*datamap.Category, error)
	CreateProcessor(ctx context.Context, tenantID string, p datamap.Processor) (*datamap.Processor, error)
	CreateStorage(ctx context.Context, tenantID string, s datamap.Storage) (*datamap.Storage, error)
	CreateFlow(ctx context.Context, tenantID string, f datamap.Flow) (*datamap.Flow, error)
	QueryCategories(ctx context.Context, tenantID string, opts datamap.CategoryOptions) (query.Result[datamap.Category], error)
	QueryProcessors(ctx context.Context, tenantID string, opts datamap.HoldingOptions) (query.Result[datamap.Processor], error)
	QueryStorages(ctx context.Context, tenantID string, opts datamap.HoldingOptions) (query.Result[datamap.Storage], error)
	QueryFlows(ctx context.Context, tenantID string, opts datamap.FlowOptions) (query.Result[datamap.Flow], error)
	Describe() []query.Description
}

// DashboardService defines the summary operation needed by MCP.
type DashboardService interface {
	Summarize(ctx context.Context, tenantID string) (*dashboard.Summary, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Requests   RequestService
	Grievances GrievanceService
	Audit      AuditService
	Keys       KeyService
	Purposes   PurposeService
	Webhooks   WebhookService
	DataMap    DataMapService
	Dashboard  DashboardService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	DefaultTenant string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "consentdesk",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	handler := NewHandler(cfg.Services, cfg.Logger)
	registerDocResources(server, handler.Describe())

	defaultTenant := cfg.DefaultTenant
	if defaultTenant == "" {
		defaultTenant = "default"
	}

	// Stdio is local only and never authenticates.
	tenancy := noAuthMiddleware(defaultTenant)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		tenancy = authMiddleware(cfg.Resolver)
	}
	// The first middleware runs first, so traffic logs carry the tenant.
	server.AddReceivingMiddleware(tenancy, trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, handler)

	return server
}
