package dsr_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository"
	"github.com/rpggio/consentdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func scenario() []dsr.Request {
	return []dsr.Request{
		{ID: "A", Status: dsr.StatusPending, Priority: dsr.PriorityHigh, RequestedAt: date("2023-05-01")},
		{ID: "B", Status: dsr.StatusCompleted, Priority: dsr.PriorityLow, RequestedAt: date("2023-05-10")},
		{ID: "C", Status: dsr.StatusPending, Priority: dsr.PriorityUrgent, RequestedAt: date("2023-05-05")},
	}
}

func resultIDs(res query.Result[dsr.Request]) []string {
	out := make([]string, 0, len(res.Results))
	for _, r := range res.Results {
		out = append(out, r.ID)
	}
	return out
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.Store[dsr.Request]{}
	audit := &mocks.AuditRepository{}
	repo.On("Create", ctx, tenantID, mock.Anything).Return(nil)
	audit.On("Log", ctx, tenantID, mock.MatchedBy(func(e *auditlog.Entry) bool {
		return e.ActionType == auditlog.ActionDSRCreated
	})).Return(nil)

	svc := dsr.NewService(repo, audit, nil)
	requestedAt := date("2023-05-01")
	rec, err := svc.Create(ctx, tenantID, dsr.CreateRequest{
		Email:       " jane@example.com ",
		Name:        "Jane",
		Type:        dsr.TypeAccess,
		RequestedAt: requestedAt,
	})
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", rec.Email)
	require.Equal(t, dsr.StatusPending, rec.Status)
	require.Equal(t, dsr.PriorityMedium, rec.Priority)
	require.Equal(t, requestedAt.Add(dsr.ResponseWindow), rec.Deadline)
	require.Contains(t, rec.ID, "dsr_")
	audit.AssertExpectations(t)
}

func TestRequestService_Create_Invalid(t *testing.T) {
	svc := dsr.NewService(&mocks.Store[dsr.Request]{}, nil, nil)

	_, err := svc.Create(context.Background(), "tenant1", dsr.CreateRequest{Type: dsr.TypeAccess})
	require.ErrorIs(t, err, dsr.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "tenant1", dsr.CreateRequest{Email: "a@b.c", Type: "teleport"})
	require.ErrorIs(t, err, dsr.ErrInvalidInput)
}

func TestRequestService_Transition(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.Store[dsr.Request]{}
	repo.On("Get", ctx, tenantID, "A").Return(&dsr.Request{ID: "A", Status: dsr.StatusInProgress}, nil)
	repo.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := dsr.NewService(repo, nil, nil)
	note := "export sent"
	updated, err := svc.Transition(ctx, tenantID, dsr.TransitionRequest{
		ID:             "A",
		ToState:        dsr.StatusCompleted,
		ResolutionNote: &note,
	})
	require.NoError(t, err)
	require.Equal(t, dsr.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	require.Equal(t, note, *updated.ResolutionNote)
}

func TestRequestService_Transition_RequiresResolution(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[dsr.Request]{}
	repo.On("Get", ctx, "tenant1", "A").Return(&dsr.Request{ID: "A", Status: dsr.StatusPending}, nil)

	svc := dsr.NewService(repo, nil, nil)
	_, err := svc.Transition(ctx, "tenant1", dsr.TransitionRequest{ID: "A", ToState: dsr.StatusRejected})
	require.ErrorIs(t, err, dsr.ErrMissingResolution)

	_, err = svc.Transition(ctx, "tenant1", dsr.TransitionRequest{ID: "A", ToState: dsr.StatusCompleted})
	require.ErrorIs(t, err, dsr.ErrInvalidTransition)
}

func TestRequestService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[dsr.Request]{}
	repo.On("Get", ctx, "tenant1", "missing").Return(nil, repository.ErrNotFound)

	svc := dsr.NewService(repo, nil, nil)
	_, err := svc.Get(ctx, "tenant1", "missing")
	require.ErrorIs(t, err, dsr.ErrRequestNotFound)
}

func TestRequestService_Query_PendingByPriority(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[dsr.Request]{}
	repo.On("List", ctx, "tenant1").Return(scenario(), nil)

	svc := dsr.NewService(repo, nil, nil)
	status := dsr.StatusPending
	res, err := svc.Query(ctx, "tenant1", dsr.QueryOptions{
		Status: &status,
		Sort:   &query.Sort{Field: dsr.FieldPriority, Direction: query.Desc},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"C", "A"}, resultIDs(res))
	require.Equal(t, 2, res.Total)
}

func TestRequestService_Query_Search(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[dsr.Request]{}
	repo.On("List", ctx, "tenant1").Return(scenario(), nil)

	svc := dsr.NewService(repo, nil, nil)
	res, err := svc.Query(ctx, "tenant1", dsr.QueryOptions{Search: "b"})
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, resultIDs(res))
	require.Equal(t, 1, res.Total)
}

func TestRequestService_Query_DateWindow(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[dsr.Request]{}
	repo.On("List", ctx, "tenant1").Return(scenario(), nil)

	clock := func() time.Time { return time.Date(2023, time.May, 10, 18, 0, 0, 0, time.UTC) }
	svc := dsr.NewService(repo, nil, nil, query.WithClock(clock))
	window := query.Today
	res, err := svc.Query(ctx, "tenant1", dsr.QueryOptions{Window: &window})
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, resultIDs(res))
}

func TestRequestService_Query_Empty(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[dsr.Request]{}
	repo.On("List", ctx, "tenant1").Return([]dsr.Request{}, nil)

	svc := dsr.NewService(repo, nil, nil)
	urgent := dsr.PriorityUrgent
	res, err := svc.Query(ctx, "tenant1", dsr.QueryOptions{
		Search:   "anything",
		Priority: &urgent,
		Sort:     &query.Sort{Field: dsr.FieldDeadline},
	})
	require.NoError(t, err)
	require.Empty(t, res.Results)
	require.Equal(t, 0, res.Total)
}

func TestParseFilters(t *testing.T) {
	s, err := dsr.ParseStatus("all")
	require.NoError(t, err)
	require.Nil(t, s)

	s, err = dsr.ParseStatus("In_Progress")
	require.NoError(t, err)
	require.Equal(t, dsr.StatusInProgress, *s)

	_, err = dsr.ParsePriority("critical")
	require.ErrorIs(t, err, dsr.ErrInvalidInput)

	typ, err := dsr.ParseType("")
	require.NoError(t, err)
	require.Nil(t, typ)
}

func TestRequest_Overdue(t *testing.T) {
	now := date("2023-06-15")
	open := dsr.Request{Status: dsr.StatusPending, Deadline: date("2023-06-01")}
	done := dsr.Request{Status: dsr.StatusCompleted, Deadline: date("2023-06-01")}
	require.True(t, open.Overdue(now))
	require.False(t, done.Overdue(now))
}
