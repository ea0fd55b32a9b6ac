package mcp

import (
	"time"

	"github.com/rpggio/consentdesk/internal/dashboard"
	"github.com/rpggio/consentdesk/internal/query"
)

// QueryParams is the common argument shape of every query_* tool.
// Filter values of "all" or "" place no constraint.
type QueryParams struct {
	Search     string            `json:"search,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Sort       *query.Sort       `json:"sort,omitempty"`
	MaxResults int               `json:"max_results,omitempty"`
	PageToken  string            `json:"page_token,omitempty"`
}

type CreateRequestParams struct {
	UserID      string     `json:"user_id,omitempty"`
	Email       string     `json:"email,omitempty"`
	Name        string     `json:"name,omitempty"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority,omitempty"`
	Description string     `json:"description,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
}

type UpdateStatusParams struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Resolution *string `json:"resolution,omitempty"`
}

type GetByIDParams struct {
	ID string `json:"id"`
}

type SubmitGrievanceParams struct {
	UserID       string `json:"user_id"`
	Subject      string `json:"subject"`
	Description  string `json:"description,omitempty"`
	Organization string `json:"organization,omitempty"`
	Priority     string `json:"priority,omitempty"`
}

type LogAuditEventParams struct {
	UserID      string  `json:"user_id,omitempty"`
	UserName    string  `json:"user_name,omitempty"`
	ActionType  string  `json:"action_type"`
	Initiator   string  `json:"initiator,omitempty"`
	SourceIP    string  `json:"source_ip,omitempty"`
	Region      string  `json:"region,omitempty"`
	PurposeID   *string `json:"purpose_id,omitempty"`
	PurposeName *string `json:"purpose_name,omitempty"`
	Details     string  `json:"details,omitempty"`
}

type CreateKeyParams struct {
	Name        string     `json:"name"`
	Scopes      []string   `json:"scopes,omitempty"`
	Environment string     `json:"environment,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type CreatePurposeParams struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	LegalBasis    string `json:"legal_basis,omitempty"`
	Status        string `json:"status,omitempty"`
	RetentionDays int    `json:"retention_days,omitempty"`
}

type CreateWebhookParams struct {
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Events      []string `json:"events"`
}

type CreateCategoryParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sensitivity string `json:"sensitivity,omitempty"`
}

type CreateHoldingParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Location    string   `json:"location,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

type CreateFlowParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Categories  []string `json:"categories,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type DashboardResponse struct {
	TenantID string `json:"tenant_id"`
	dashboard.Summary
}

type DescribeQueriesResponse struct {
	Entities []query.Description `json:"entities"`
}
