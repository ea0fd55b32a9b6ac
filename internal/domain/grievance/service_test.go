package grievance_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func snapshot() []grievance.Grievance {
	at := func(d int) time.Time { return time.Date(2024, time.February, d, 9, 0, 0, 0, time.UTC) }
	return []grievance.Grievance{
		{ID: "g1", Subject: "Marketing emails after opt-out", Organization: "Acme", Status: grievance.StatusOpen, Priority: grievance.PriorityHigh, SubmittedAt: at(3)},
		{ID: "g2", Subject: "Data shared with partner", Organization: "Globex", Status: grievance.StatusResolved, Priority: grievance.PriorityUrgent, SubmittedAt: at(1)},
		{ID: "g3", Subject: "Cannot download my data", Organization: "Acme", Status: grievance.StatusOpen, Priority: grievance.PriorityLow, SubmittedAt: at(7)},
	}
}

func ids(res query.Result[grievance.Grievance]) []string {
	out := make([]string, 0, len(res.Results))
	for _, g := range res.Results {
		out = append(out, g.ID)
	}
	return out
}

func TestGrievanceService_Submit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[grievance.Grievance]{}
	audit := &mocks.AuditRepository{}
	repo.On("Create", ctx, "tenant1", mock.Anything).Return(nil)
	audit.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	svc := grievance.NewService(repo, audit, nil)
	g, err := svc.Submit(ctx, "tenant1", grievance.SubmitRequest{
		UserID:       "u1",
		Subject:      "  Unwanted calls ",
		Organization: "Acme",
	})
	require.NoError(t, err)
	require.Equal(t, "Unwanted calls", g.Subject)
	require.Equal(t, grievance.StatusOpen, g.Status)
	require.Equal(t, grievance.PriorityMedium, g.Priority)
	audit.AssertNumberOfCalls(t, "Log", 1)
}

func TestGrievanceService_Submit_Invalid(t *testing.T) {
	svc := grievance.NewService(&mocks.Store[grievance.Grievance]{}, nil, nil)
	_, err := svc.Submit(context.Background(), "tenant1", grievance.SubmitRequest{UserID: "u1"})
	require.ErrorIs(t, err, grievance.ErrInvalidInput)

	_, err = svc.Submit(context.Background(), "tenant1", grievance.SubmitRequest{UserID: "u1", Subject: "x", Priority: "asap"})
	require.ErrorIs(t, err, grievance.ErrInvalidInput)
}

func TestGrievanceService_Transition(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[grievance.Grievance]{}
	repo.On("Get", ctx, "tenant1", "g1").Return(&grievance.Grievance{ID: "g1", Status: grievance.StatusInProgress}, nil)
	repo.On("Update", ctx, "tenant1", mock.Anything).Return(nil)

	svc := grievance.NewService(repo, nil, nil)
	_, err := svc.Transition(ctx, "tenant1", grievance.TransitionRequest{ID: "g1", ToState: grievance.StatusResolved})
	require.ErrorIs(t, err, grievance.ErrMissingResolution)

	resolution := "Unsubscribed from all lists"
	g, err := svc.Transition(ctx, "tenant1", grievance.TransitionRequest{ID: "g1", ToState: grievance.StatusResolved, Resolution: &resolution})
	require.NoError(t, err)
	require.Equal(t, grievance.StatusResolved, g.Status)
	require.NotNil(t, g.ResolvedAt)

	_, err = svc.Transition(ctx, "tenant1", grievance.TransitionRequest{ID: "g1", ToState: grievance.StatusOpen})
	require.ErrorIs(t, err, grievance.ErrInvalidTransition)
}

func TestGrievanceService_Query(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[grievance.Grievance]{}
	repo.On("List", ctx, "tenant1").Return(snapshot(), nil)
	svc := grievance.NewService(repo, nil, nil)

	open := grievance.StatusOpen
	res, err := svc.Query(ctx, "tenant1", grievance.QueryOptions{
		Status:       &open,
		Organization: "Acme",
		Sort:         &query.Sort{Field: grievance.FieldPriority},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"g1", "g3"}, ids(res))

	res, err = svc.Query(ctx, "tenant1", grievance.QueryOptions{Search: "DATA"})
	require.NoError(t, err)
	require.Equal(t, []string{"g2", "g3"}, ids(res))
}

func TestGrievanceService_Query_SubmittedReverses(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[grievance.Grievance]{}
	repo.On("List", ctx, "tenant1").Return(snapshot(), nil)
	svc := grievance.NewService(repo, nil, nil)

	asc, err := svc.Query(ctx, "tenant1", grievance.QueryOptions{Sort: &query.Sort{Field: grievance.FieldSubmitted, Direction: query.Asc}})
	require.NoError(t, err)
	desc, err := svc.Query(ctx, "tenant1", grievance.QueryOptions{Sort: &query.Sort{Field: grievance.FieldSubmitted, Direction: query.Desc}})
	require.NoError(t, err)

	want := ids(asc)
	slices.Reverse(want)
	require.Equal(t, []string{"g2", "g1", "g3"}, ids(asc))
	require.Equal(t, want, ids(desc))
}

func TestParseStatus(t *testing.T) {
	s, err := grievance.ParseStatus("ALL")
	require.NoError(t, err)
	require.Nil(t, s)

	_, err = grievance.ParseStatus("pending")
	require.ErrorIs(t, err, grievance.ErrInvalidInput)
	require.ErrorContains(t, err, `"pending"`)

	p, err := grievance.ParsePriority(" URGENT")
	require.NoError(t, err)
	require.Equal(t, grievance.PriorityUrgent, *p)
}
