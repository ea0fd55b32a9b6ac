package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/consentdesk/internal/dashboard"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/stretchr/testify/require"
)

type requestStub struct {
	createFn     func(context.Context, string, dsr.CreateRequest) (*dsr.Request, error)
	transitionFn func(context.Context, string, dsr.TransitionRequest) (*dsr.Request, error)
	getFn        func(context.Context, string, string) (*dsr.Request, error)
	queryFn      func(context.Context, string, dsr.QueryOptions) (query.Result[dsr.Request], error)
}

func (r requestStub) Create(ctx context.Context, tenantID string, req dsr.CreateRequest) (*dsr.Request, error) {
	return r.createFn(ctx, tenantID, req)
}
func (r requestStub) Transition(ctx context.Context, tenantID string, req dsr.TransitionRequest) (*dsr.Request, error) {
	return r.transitionFn(ctx, tenantID, req)
}
func (r requestStub) Get(ctx context.Context, tenantID, id string) (*dsr.Request, error) {
	return r.getFn(ctx, tenantID, id)
}
func (r requestStub) Query(ctx context.Context, tenantID string, opts dsr.QueryOptions) (query.Result[dsr.Request], error) {
	return r.queryFn(ctx, tenantID, opts)
}
func (r requestStub) Describe() query.Description {
	return query.New(dsr.QueryConfig()).Describe()
}

type auditStub struct {
	logFn   func(context.Context, string, *auditlog.Entry) error
	queryFn func(context.Context, string, auditlog.QueryOptions) (query.Result[auditlog.Entry], error)
}

func (a auditStub) Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error {
	return a.logFn(ctx, tenantID, entry)
}
func (a auditStub) Query(ctx context.Context, tenantID string, opts auditlog.QueryOptions) (query.Result[auditlog.Entry], error) {
	return a.queryFn(ctx, tenantID, opts)
}
func (a auditStub) Describe() query.Description {
	return query.New(auditlog.QueryConfig()).Describe()
}

type dashboardStub struct {
	summarizeFn func(context.Context, string) (*dashboard.Summary, error)
}

func (d dashboardStub) Summarize(ctx context.Context, tenantID string) (*dashboard.Summary, error) {
	return d.summarizeFn(ctx, tenantID)
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandler_RequestCommands(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	var gotCreate dsr.CreateRequest
	var gotTransition dsr.TransitionRequest
	handler := NewHandler(Services{Requests: requestStub{
		createFn: func(_ context.Context, tid string, req dsr.CreateRequest) (*dsr.Request, error) {
			require.Equal(t, tenantID, tid)
			gotCreate = req
			return &dsr.Request{ID: "dsr_1", Type: req.Type, Priority: req.Priority, Status: dsr.StatusPending}, nil
		},
		transitionFn: func(_ context.Context, _ string, req dsr.TransitionRequest) (*dsr.Request, error) {
			gotTransition = req
			return &dsr.Request{ID: req.ID, Status: req.ToState}, nil
		},
		getFn: func(_ context.Context, _ string, id string) (*dsr.Request, error) {
			return nil, fmt.Errorf("get %s: %w", id, dsr.ErrRequestNotFound)
		},
	}}, nil)

	result, err := handler.Handle(ctx, tenantID, "create_dsr_request", raw(t, map[string]any{
		"email":    "a@example.com",
		"type":     "Deletion",
		"priority": "HIGH",
	}))
	require.NoError(t, err)
	require.Equal(t, "dsr_1", result.(*dsr.Request).ID)
	require.Equal(t, dsr.TypeDeletion, gotCreate.Type)
	require.Equal(t, dsr.PriorityHigh, gotCreate.Priority)
	require.True(t, gotCreate.RequestedAt.IsZero())

	requestID := id.New(id.PrefixRequest)
	result, err = handler.Handle(ctx, tenantID, "update_dsr_status", raw(t, map[string]any{
		"id":         requestID,
		"status":     "completed",
		"resolution": "exported",
	}))
	require.NoError(t, err)
	require.Equal(t, dsr.StatusCompleted, result.(*dsr.Request).Status)
	require.NotNil(t, gotTransition.ResolutionNote)
	require.Equal(t, "exported", *gotTransition.ResolutionNote)

	require.Equal(t, requestID, gotTransition.ID)

	_, err = handler.Handle(ctx, tenantID, "get_dsr_request", raw(t, map[string]any{"id": id.New(id.PrefixRequest)}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "REQUEST_NOT_FOUND", apiErr.Code)
}

func TestHandler_RejectsMalformedIDs(t *testing.T) {
	called := false
	handler := NewHandler(Services{Requests: requestStub{
		getFn: func(context.Context, string, string) (*dsr.Request, error) {
			called = true
			return nil, dsr.ErrRequestNotFound
		},
	}}, nil)

	for _, tc := range []struct {
		method string
		id     string
	}{
		{"get_dsr_request", "dsr_missing"},
		{"get_dsr_request", id.New(id.PrefixGrievance)},
		{"get_dsr_request", ""},
		{"update_grievance_status", id.New(id.PrefixRequest)},
		{"revoke_api_key", "key-1"},
		{"update_webhook_status", id.New(id.PrefixPurpose)},
	} {
		_, err := handler.Handle(context.Background(), "tenant1", tc.method, raw(t, map[string]any{"id": tc.id, "status": "active"}))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "%s %q", tc.method, tc.id)
		require.Equal(t, "INVALID_PARAMS", apiErr.Code)
	}
	require.False(t, called)
}

func TestHandler_QueryRequests(t *testing.T) {
	ctx := context.Background()

	var got dsr.QueryOptions
	handler := NewHandler(Services{Requests: requestStub{
		queryFn: func(_ context.Context, _ string, opts dsr.QueryOptions) (query.Result[dsr.Request], error) {
			got = opts
			return query.Result[dsr.Request]{Results: []dsr.Request{{ID: "dsr_1"}}, Total: 1}, nil
		},
	}}, nil)

	result, err := handler.Handle(ctx, "tenant1", "query_dsr_requests", raw(t, map[string]any{
		"search":      "jane",
		"filters":     map[string]string{"status": "pending", "type": "all", "priority": "", "bogus": "x"},
		"sort":        map[string]string{"field": "priority", "direction": "asc"},
		"max_results": 10,
	}))
	require.NoError(t, err)
	require.Equal(t, 1, result.(query.Result[dsr.Request]).Total)

	require.Equal(t, "jane", got.Search)
	require.NotNil(t, got.Status)
	require.Equal(t, dsr.StatusPending, *got.Status)
	require.Nil(t, got.Type)
	require.Nil(t, got.Priority)
	require.Nil(t, got.Window)
	require.Equal(t, &query.Sort{Field: "priority", Direction: query.Asc}, got.Sort)
	require.Equal(t, 10, got.Page.MaxResults)
}

func TestHandler_QueryDegradesUnknownFilterValues(t *testing.T) {
	ctx := context.Background()

	var gotRequest dsr.QueryOptions
	var gotAudit auditlog.QueryOptions
	handler := NewHandler(Services{
		Requests: requestStub{queryFn: func(_ context.Context, _ string, opts dsr.QueryOptions) (query.Result[dsr.Request], error) {
			gotRequest = opts
			return query.Result[dsr.Request]{Results: []dsr.Request{}}, nil
		}},
		Audit: auditStub{queryFn: func(_ context.Context, _ string, opts auditlog.QueryOptions) (query.Result[auditlog.Entry], error) {
			gotAudit = opts
			return query.Result[auditlog.Entry]{Results: []auditlog.Entry{}}, nil
		}},
	}, nil)

	_, err := handler.Handle(ctx, "tenant1", "query_dsr_requests", raw(t, map[string]any{
		"filters": map[string]string{"status": "Done", "priority": "HIGH", "date": "next_week"},
	}))
	require.NoError(t, err)
	require.NotNil(t, gotRequest.Status)
	require.Equal(t, dsr.Status("done"), *gotRequest.Status)
	require.False(t, gotRequest.Status.Valid())
	require.Equal(t, dsr.PriorityHigh, *gotRequest.Priority)
	require.Nil(t, gotRequest.Window)

	_, err = handler.Handle(ctx, "tenant1", "query_audit_log", raw(t, map[string]any{
		"filters": map[string]string{"initiator": "robot", "date": "This Week"},
	}))
	require.NoError(t, err)
	require.Equal(t, auditlog.Initiator("robot"), *gotAudit.Initiator)
	require.Equal(t, query.ThisWeek, *gotAudit.Window)

	_, err = handler.Handle(ctx, "tenant1", "query_audit_log", raw(t, map[string]any{"filters": []string{"status"}}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_PARAMS", apiErr.Code)
}

func TestHandler_AuditCommands(t *testing.T) {
	ctx := context.Background()

	var gotQuery auditlog.QueryOptions
	handler := NewHandler(Services{Audit: auditStub{
		logFn: func(_ context.Context, _ string, entry *auditlog.Entry) error {
			if entry.ActionType == "" {
				return fmt.Errorf("%w: action type is required", auditlog.ErrInvalidInput)
			}
			entry.ID = "audit_1"
			return nil
		},
		queryFn: func(_ context.Context, _ string, opts auditlog.QueryOptions) (query.Result[auditlog.Entry], error) {
			gotQuery = opts
			return query.Result[auditlog.Entry]{Results: []auditlog.Entry{}}, nil
		},
	}}, nil)

	result, err := handler.Handle(ctx, "tenant1", "log_audit_event", raw(t, map[string]any{
		"action_type": "consent.granted",
		"initiator":   "user",
	}))
	require.NoError(t, err)
	entry := result.(*auditlog.Entry)
	require.Equal(t, "audit_1", entry.ID)
	require.Equal(t, auditlog.InitiatorUser, entry.Initiator)

	_, err = handler.Handle(ctx, "tenant1", "log_audit_event", raw(t, map[string]any{}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)

	_, err = handler.Handle(ctx, "tenant1", "query_audit_log", raw(t, map[string]any{
		"filters": map[string]string{"category": "consent", "date": "today"},
	}))
	require.NoError(t, err)
	require.Equal(t, "consent", gotQuery.Category)
	require.NotNil(t, gotQuery.Window)
	require.Equal(t, query.Today, *gotQuery.Window)
}

func TestHandler_DashboardAndDescribe(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(Services{
		Requests: requestStub{},
		Audit:    auditStub{},
		Dashboard: dashboardStub{summarizeFn: func(_ context.Context, tenantID string) (*dashboard.Summary, error) {
			return &dashboard.Summary{Requests: 3, PendingRequests: 1}, nil
		}},
	}, nil)

	result, err := handler.Handle(ctx, "tenant1", "get_dashboard_summary", nil)
	require.NoError(t, err)
	resp := result.(DashboardResponse)
	require.Equal(t, "tenant1", resp.TenantID)
	require.Equal(t, 3, resp.Requests)

	result, err = handler.Handle(ctx, "tenant1", "describe_queries", nil)
	require.NoError(t, err)
	entities := result.(DescribeQueriesResponse).Entities
	require.Len(t, entities, 2)
	require.Equal(t, "audit_log", entities[0].Entity)
	require.Equal(t, "dsr_request", entities[1].Entity)
	require.Contains(t, entities[1].Sorts, "priority")
}

func TestHandler_UnknownMethod(t *testing.T) {
	handler := NewHandler(Services{}, nil)

	for _, method := range []string{"delete_everything", "query_nothing"} {
		_, err := handler.Handle(context.Background(), "tenant1", method, nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "UNKNOWN_METHOD", apiErr.Code)
	}
}

func TestMapError_PassesThroughUnknownErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	require.Nil(t, MapError(boom))
	require.Equal(t, boom, mapError(boom))
	require.Nil(t, MapError(nil))
}
