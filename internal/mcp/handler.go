package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
)

// Handler dispatches MCP commands.
type Handler struct {
	svc    Services
	logger *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, logger: logger}
}

// Handle dispatches MCP requests to domain services. Domain errors are
// returned as *APIError.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, tenantID, method, params)
	if err != nil {
		h.logger.Debug("mcp call failed", "method", method, "tenant_id", tenantID, "error", err)
		return nil, mapError(err)
	}
	return result, nil
}

// Describe lists the query fields of every entity.
func (h *Handler) Describe() []query.Description {
	var out []query.Description
	for _, d := range []interface{ Describe() query.Description }{
		h.svc.Audit, h.svc.Requests, h.svc.Grievances, h.svc.Keys, h.svc.Purposes, h.svc.Webhooks,
	} {
		if d != nil {
			out = append(out, d.Describe())
		}
	}
	if h.svc.DataMap != nil {
		out = append(out, h.svc.DataMap.Describe()...)
	}
	return out
}

func (h *Handler) dispatch(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	if strings.HasPrefix(method, "query_") {
		var req QueryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.query(ctx, tenantID, method, req)
	}

	switch method {
	case "describe_queries":
		return DescribeQueriesResponse{Entities: h.Describe()}, nil
	case "get_dashboard_summary":
		sum, err := h.svc.Dashboard.Summarize(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		return DashboardResponse{TenantID: tenantID, Summary: *sum}, nil

	case "create_dsr_request":
		var req CreateRequestParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		create := dsr.CreateRequest{
			UserID:      req.UserID,
			Email:       req.Email,
			Name:        req.Name,
			Type:        dsr.RequestType(strings.ToLower(req.Type)),
			Priority:    dsr.Priority(strings.ToLower(req.Priority)),
			Description: req.Description,
		}
		if req.RequestedAt != nil {
			create.RequestedAt = *req.RequestedAt
		}
		return h.svc.Requests.Create(ctx, tenantID, create)
	case "get_dsr_request":
		var req GetByIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := checkID(req.ID, id.PrefixRequest); err != nil {
			return nil, err
		}
		return h.svc.Requests.Get(ctx, tenantID, req.ID)
	case "update_dsr_status":
		var req UpdateStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := checkID(req.ID, id.PrefixRequest); err != nil {
			return nil, err
		}
		return h.svc.Requests.Transition(ctx, tenantID, dsr.TransitionRequest{
			ID:             req.ID,
			ToState:        dsr.Status(strings.ToLower(req.Status)),
			ResolutionNote: req.Resolution,
		})

	case "submit_grievance":
		var req SubmitGrievanceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Grievances.Submit(ctx, tenantID, grievance.SubmitRequest{
			UserID:       req.UserID,
			Subject:      req.Subject,
			Description:  req.Description,
			Organization: req.Organization,
			Priority:     grievance.Priority(strings.ToLower(req.Priority)),
		})
	case "get_grievance":
		var req GetByIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := checkID(req.ID, id.PrefixGrievance); err != nil {
			return nil, err
		}
		return h.svc.Grievances.Get(ctx, tenantID, req.ID)
	case "update_grievance_status":
		var req UpdateStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := checkID(req.ID, id.PrefixGrievance); err != nil {
			return nil, err
		}
		return h.svc.Grievances.Transition(ctx, tenantID, grievance.TransitionRequest{
			ID:         req.ID,
			ToState:    grievance.Status(strings.ToLower(req.Status)),
			Resolution: req.Resolution,
		})

	case "log_audit_event":
		var req LogAuditEventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry := &auditlog.Entry{
			UserID:      req.UserID,
			UserName:    req.UserName,
			ActionType:  req.ActionType,
			Initiator:   auditlog.Initiator(strings.ToLower(req.Initiator)),
			SourceIP:    req.SourceIP,
			Region:      req.Region,
			PurposeID:   req.PurposeID,
			PurposeName: req.PurposeName,
			Details:     req.Details,
		}
		if err := h.svc.Audit.Log(ctx, tenantID, entry); err != nil {
			return nil, err
		}
		return entry, nil

	case "create_api_key":
		var req CreateKeyParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Keys.Create(ctx, tenantID, apikey.CreateRequest{
			Name:        req.Name,
			Scopes:      req.Scopes,
			Environment: apikey.Environment(strings.ToLower(req.Environment)),
			ExpiresAt:   req.ExpiresAt,
		})
	case "revoke_api_key":
		var req GetByIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := checkID(req.ID, id.PrefixAPIKey); err != nil {
			return nil, err
		}
		return h.svc.Keys.Revoke(ctx, tenantID, req.ID)

	case "create_purpose":
		var req CreatePurposeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Purposes.Create(ctx, tenantID, purpose.CreateRequest{
			Name:        req.Name,
			Description: req.Description,
			LegalBasis:  purpose.LegalBasis(strings.ToLower(req.LegalBasis)),
			Status:      purpose.Status(strings.ToLower(req.Status)),
			Retention:   req.RetentionDays,
		})

	case "create_webhook":
		var req CreateWebhookParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Webhooks.Create(ctx, tenantID, webhook.CreateRequest{
			URL:         req.URL,
			Description: req.Description,
			Events:      req.Events,
		})
	case "update_webhook_status":
		var req UpdateStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := checkID(req.ID, id.PrefixWebhook); err != nil {
			return nil, err
		}
		return h.svc.Webhooks.SetStatus(ctx, tenantID, req.ID, webhook.Status(strings.ToLower(req.Status)))

	case "create_data_category":
		var req CreateCategoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.DataMap.CreateCategory(ctx, tenantID, datamap.Category{
			Name:        req.Name,
			Description: req.Description,
			Sensitivity: datamap.Sensitivity(strings.ToLower(req.Sensitivity)),
		})
	case "create_data_processor":
		var req CreateHoldingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.DataMap.CreateProcessor(ctx, tenantID, datamap.Processor{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			Location:    req.Location,
			Categories:  req.Categories,
		})
	case "create_data_storage":
		var req CreateHoldingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.DataMap.CreateStorage(ctx, tenantID, datamap.Storage{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			Location:    req.Location,
			Categories:  req.Categories,
		})
	case "create_data_flow":
		var req CreateFlowParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.DataMap.CreateFlow(ctx, tenantID, datamap.Flow{
			Name:        req.Name,
			Description: req.Description,
			Source:      req.Source,
			Destination: req.Destination,
			Categories:  req.Categories,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (h *Handler) query(ctx context.Context, tenantID, method string, p QueryParams) (any, error) {
	switch method {
	case "query_audit_log":
		return h.svc.Audit.Query(ctx, tenantID, auditOptions(p))
	case "query_dsr_requests":
		return h.svc.Requests.Query(ctx, tenantID, requestOptions(p))
	case "query_grievances":
		return h.svc.Grievances.Query(ctx, tenantID, grievanceOptions(p))
	case "query_api_keys":
		return h.svc.Keys.Query(ctx, tenantID, keyOptions(p))
	case "query_purposes":
		return h.svc.Purposes.Query(ctx, tenantID, purposeOptions(p))
	case "query_webhooks":
		return h.svc.Webhooks.Query(ctx, tenantID, webhookOptions(p))
	case "query_data_categories":
		return h.svc.DataMap.QueryCategories(ctx, tenantID, categoryOptions(p))
	case "query_data_processors":
		return h.svc.DataMap.QueryProcessors(ctx, tenantID, holdingOptions(p))
	case "query_data_storages":
		return h.svc.DataMap.QueryStorages(ctx, tenantID, holdingOptions(p))
	case "query_data_flows":
		return h.svc.DataMap.QueryFlows(ctx, tenantID, flowOptions(p))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// checkID rejects IDs that are malformed or belong to another entity.
func checkID(raw string, prefix id.Prefix) error {
	if err := id.Check(raw, prefix); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
