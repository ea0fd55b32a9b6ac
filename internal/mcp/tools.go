package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/query"
)

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

type queryTool struct {
	name        string
	entity      string
	description string
}

var queryTools = []queryTool{
	{"query_audit_log", "audit_log", "Search, filter, and sort audit log entries. The category filter matches the action type prefix (consent, dsr, user, ...); the date filter takes today, yesterday, this_week, this_month, or last_month"},
	{"query_dsr_requests", "dsr_request", "Search, filter, and sort data-subject requests. Priority sorts by rank (urgent > high > medium > low)"},
	{"query_grievances", "grievance", "Search, filter, and sort grievances"},
	{"query_api_keys", "api_key", "Search, filter, and sort API keys. The status filter also accepts expired"},
	{"query_purposes", "purpose", "Search, filter, and sort processing purposes"},
	{"query_webhooks", "webhook", "Search, filter, and sort webhooks. The event filter matches any subscribed event"},
	{"query_data_categories", "data_category", "Search and filter data categories"},
	{"query_data_processors", "data_processor", "Search and filter data processors. The category filter matches any linked category ID"},
	{"query_data_storages", "data_storage", "Search and filter data storage locations. The category filter matches any linked category ID"},
	{"query_data_flows", "data_flow", "Search and filter data flows"},
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func strEnum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func querySchema(d query.Description) map[string]any {
	filters := map[string]any{}
	for _, f := range d.Filters {
		filters[f] = str(fmt.Sprintf("Exact value for %s, or \"all\"", f))
	}
	props := map[string]any{
		"search":      str(fmt.Sprintf("Case-insensitive substring matched against %v", d.Search)),
		"filters":     map[string]any{"type": "object", "properties": filters, "additionalProperties": map[string]any{"type": "string"}},
		"max_results": map[string]any{"type": "integer", "description": "Page size (default 100, max 1000)"},
		"page_token":  str("Token from a previous response's next_page_token"),
	}
	if len(d.Sorts) > 0 {
		props["sort"] = object(map[string]any{
			"field":     strEnum("Field to sort by", d.Sorts...),
			"direction": strEnum("Sort direction (default desc)", "asc", "desc"),
		}, "field")
	}
	return object(props)
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog(descs []query.Description) []ToolDefinition {
	byEntity := make(map[string]query.Description, len(descs))
	for _, d := range descs {
		byEntity[d.Entity] = d
	}

	var tools []ToolDefinition
	for _, qt := range queryTools {
		d, ok := byEntity[qt.entity]
		if !ok {
			continue
		}
		tools = append(tools, ToolDefinition{Name: qt.name, Description: qt.description, InputSchema: querySchema(d)})
	}

	idOnly := func(what string) map[string]any {
		return object(map[string]any{"id": str(what + " ID")}, "id")
	}
	statusUpdate := func(what string, statuses ...string) map[string]any {
		return object(map[string]any{
			"id":         str(what + " ID"),
			"status":     strEnum("New status", statuses...),
			"resolution": str("Resolution note; required when completing, rejecting, or resolving"),
		}, "id", "status")
	}
	priority := strEnum("Priority (default medium)", "low", "medium", "high", "urgent")

	return append(tools,
		ToolDefinition{
			Name:        "describe_queries",
			Description: "List the searchable, filterable, and sortable fields of every entity",
			InputSchema: object(map[string]any{}),
		},
		ToolDefinition{
			Name:        "get_dashboard_summary",
			Description: "Count requests, grievances, audit events, keys, purposes, and webhooks for the tenant",
			InputSchema: object(map[string]any{}),
		},

		// Data-subject requests
		ToolDefinition{
			Name:        "create_dsr_request",
			Description: "Open a data-subject request; the deadline is 30 days after it was requested",
			InputSchema: object(map[string]any{
				"user_id":      str("Data principal ID"),
				"email":        str("Contact email (user_id or email required)"),
				"name":         str("Data principal name"),
				"type":         strEnum("Request type", "access", "deletion", "rectification", "portability", "restriction", "objection"),
				"priority":     priority,
				"description":  str("Request details"),
				"requested_at": str("When the request was made (RFC 3339, default now)"),
			}, "type"),
		},
		ToolDefinition{Name: "get_dsr_request", Description: "Get a data-subject request", InputSchema: idOnly("Request")},
		ToolDefinition{
			Name:        "update_dsr_status",
			Description: "Move a data-subject request to a new status",
			InputSchema: statusUpdate("Request", "pending", "in_progress", "completed", "rejected"),
		},

		// Grievances
		ToolDefinition{
			Name:        "submit_grievance",
			Description: "Record a grievance raised by a data principal",
			InputSchema: object(map[string]any{
				"user_id":      str("Data principal ID"),
				"subject":      str("Short subject line"),
				"description":  str("Grievance details"),
				"organization": str("Organization the grievance is against"),
				"priority":     priority,
			}, "user_id", "subject"),
		},
		ToolDefinition{Name: "get_grievance", Description: "Get a grievance", InputSchema: idOnly("Grievance")},
		ToolDefinition{
			Name:        "update_grievance_status",
			Description: "Move a grievance to a new status",
			InputSchema: statusUpdate("Grievance", "open", "in_progress", "escalated", "resolved", "closed"),
		},

		// Audit log
		ToolDefinition{
			Name:        "log_audit_event",
			Description: "Append an entry to the audit log",
			InputSchema: object(map[string]any{
				"action_type":  str("Category and event, e.g. consent.granted"),
				"initiator":    strEnum("Who caused the action (default system)", "user", "admin", "system"),
				"user_id":      str("Acting user ID"),
				"user_name":    str("Acting user name"),
				"source_ip":    str("Source IP address"),
				"region":       str("Region code"),
				"purpose_id":   str("Related purpose ID"),
				"purpose_name": str("Related purpose name"),
				"details":      str("JSON details"),
			}, "action_type"),
		},

		// API keys
		ToolDefinition{
			Name:        "create_api_key",
			Description: "Issue an API key. The secret is returned once and cannot be retrieved later",
			InputSchema: object(map[string]any{
				"name":        str("Key name"),
				"scopes":      map[string]any{"type": "array", "items": strEnum("Scope", apikey.Scopes...)},
				"environment": strEnum("Environment (default test)", "live", "test"),
				"expires_at":  str("Expiry (RFC 3339)"),
			}, "name"),
		},
		ToolDefinition{Name: "revoke_api_key", Description: "Permanently revoke an API key", InputSchema: idOnly("Key")},

		// Purposes
		ToolDefinition{
			Name:        "create_purpose",
			Description: "Register a processing purpose",
			InputSchema: object(map[string]any{
				"name":           str("Purpose name"),
				"description":    str("Purpose description"),
				"legal_basis":    strEnum("Legal basis (default consent)", "consent", "contract", "legal_obligation", "vital_interest", "legitimate_interest"),
				"status":         strEnum("Status (default draft)", "draft", "active", "archived"),
				"retention_days": map[string]any{"type": "integer", "description": "Retention period in days"},
			}, "name"),
		},

		// Webhooks
		ToolDefinition{
			Name:        "create_webhook",
			Description: "Subscribe an https endpoint to events",
			InputSchema: object(map[string]any{
				"url":         str("Absolute https URL"),
				"description": str("Webhook description"),
				"events":      map[string]any{"type": "array", "items": strEnum("Event", webhook.Events...)},
			}, "url", "events"),
		},
		ToolDefinition{
			Name:        "update_webhook_status",
			Description: "Pause, resume, or flag a webhook",
			InputSchema: object(map[string]any{
				"id":     str("Webhook ID"),
				"status": strEnum("New status", "active", "paused", "failing"),
			}, "id", "status"),
		},

		// Data map
		ToolDefinition{
			Name:        "create_data_category",
			Description: "Add a data category",
			InputSchema: object(map[string]any{
				"name":        str("Category name"),
				"description": str("Category description"),
				"sensitivity": strEnum("Sensitivity (default medium)", "low", "medium", "high", "special"),
			}, "name"),
		},
		ToolDefinition{Name: "create_data_processor", Description: "Add a data processor", InputSchema: holdingSchema("Processor")},
		ToolDefinition{Name: "create_data_storage", Description: "Add a data storage location", InputSchema: holdingSchema("Storage")},
		ToolDefinition{
			Name:        "create_data_flow",
			Description: "Add a data flow between two systems",
			InputSchema: object(map[string]any{
				"name":        str("Flow name"),
				"description": str("Flow description"),
				"source":      str("Source system"),
				"destination": str("Destination system"),
				"categories":  map[string]any{"type": "array", "items": str("Data category ID")},
			}, "name", "source", "destination"),
		},
	)
}

func holdingSchema(what string) map[string]any {
	return object(map[string]any{
		"name":        str(what + " name"),
		"description": str(what + " description"),
		"type":        str(what + " type, e.g. vendor or database"),
		"location":    str("Country or region"),
		"categories":  map[string]any{"type": "array", "items": str("Data category ID")},
	}, "name", "type")
}

// registerTools exposes every catalog entry as an MCP tool backed by handler.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog(handler.Describe()) {
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, toolHandler(handler, def.Name))
	}
}

func toolHandler(handler *Handler, name string) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		result, err := handler.Handle(ctx, getTenantID(ctx), name, args)
		if err != nil {
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				return nil, err
			}
			return textResult(apiErr, true)
		}
		return textResult(result, false)
	}
}

func textResult(payload any, isError bool) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, nil
}
