package auditlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func entries() []auditlog.Entry {
	at := func(d, h int) time.Time { return time.Date(2024, time.March, d, h, 0, 0, 0, time.UTC) }
	return []auditlog.Entry{
		{ID: "e1", UserName: "Asha", ActionType: auditlog.ActionConsentGranted, Initiator: auditlog.InitiatorUser, Region: "IN", PurposeName: strPtr("Marketing"), Timestamp: at(4, 10)},
		{ID: "e2", UserName: "Ben", ActionType: auditlog.ActionUserLogin, Initiator: auditlog.InitiatorUser, SourceIP: "10.0.0.7", Timestamp: at(6, 9)},
		{ID: "e3", UserName: "Chen", ActionType: auditlog.ActionConsentRevoked, Initiator: auditlog.InitiatorAdmin, Timestamp: at(1, 12)},
		{ID: "e4", ActionType: auditlog.ActionDSRCreated, Initiator: auditlog.InitiatorSystem, Timestamp: at(6, 8)},
	}
}

func ids(res query.Result[auditlog.Entry]) []string {
	out := make([]string, 0, len(res.Results))
	for _, e := range res.Results {
		out = append(out, e.ID)
	}
	return out
}

func TestAuditService_Log(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	svc := auditlog.NewService(repo, nil)
	entry := &auditlog.Entry{ActionType: auditlog.ActionConsentGranted}
	require.NoError(t, svc.Log(ctx, "tenant1", entry))
	require.Contains(t, entry.ID, "audit_")
	require.Equal(t, auditlog.InitiatorSystem, entry.Initiator)
	require.False(t, entry.Timestamp.IsZero())
}

func TestAuditService_Log_Invalid(t *testing.T) {
	svc := auditlog.NewService(&mocks.AuditRepository{}, nil)
	ctx := context.Background()

	require.ErrorIs(t, svc.Log(ctx, "tenant1", nil), auditlog.ErrInvalidInput)
	require.ErrorIs(t, svc.Log(ctx, "tenant1", &auditlog.Entry{ActionType: "login"}), auditlog.ErrInvalidInput)
	require.ErrorIs(t, svc.Log(ctx, "tenant1", &auditlog.Entry{ActionType: "user.login", Initiator: "robot"}), auditlog.ErrInvalidInput)
}

func TestAuditService_Log_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	boom := errors.New("disk full")
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(boom)

	svc := auditlog.NewService(repo, nil)
	err := svc.Log(ctx, "tenant1", &auditlog.Entry{ActionType: auditlog.ActionUserLogin})
	require.ErrorIs(t, err, boom)
}

func TestAuditService_Query_Category(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("List", ctx, "tenant1").Return(entries(), nil)
	svc := auditlog.NewService(repo, nil)

	res, err := svc.Query(ctx, "tenant1", auditlog.QueryOptions{Category: "consent"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	for _, e := range res.Results {
		require.Equal(t, "consent", e.Category())
	}
}

func TestAuditService_Query_TimestampDefaultsDescending(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("List", ctx, "tenant1").Return(entries(), nil)
	svc := auditlog.NewService(repo, nil)

	res, err := svc.Query(ctx, "tenant1", auditlog.QueryOptions{Sort: &query.Sort{Field: auditlog.FieldTimestamp}})
	require.NoError(t, err)
	require.Equal(t, []string{"e2", "e4", "e1", "e3"}, ids(res))
}

func TestAuditService_Query_SearchAndInitiator(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("List", ctx, "tenant1").Return(entries(), nil)
	svc := auditlog.NewService(repo, nil)

	res, err := svc.Query(ctx, "tenant1", auditlog.QueryOptions{Search: "marketing"})
	require.NoError(t, err)
	require.Equal(t, []string{"e1"}, ids(res))

	res, err = svc.Query(ctx, "tenant1", auditlog.QueryOptions{Search: "10.0.0"})
	require.NoError(t, err)
	require.Equal(t, []string{"e2"}, ids(res))

	admin := auditlog.InitiatorAdmin
	res, err = svc.Query(ctx, "tenant1", auditlog.QueryOptions{Initiator: &admin})
	require.NoError(t, err)
	require.Equal(t, []string{"e3"}, ids(res))
}

func TestAuditService_Query_Today(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("List", ctx, "tenant1").Return(entries(), nil)
	now := time.Date(2024, time.March, 6, 11, 0, 0, 0, time.UTC)
	svc := auditlog.NewService(repo, nil, query.WithClock(func() time.Time { return now }))

	today := query.Today
	res, err := svc.Query(ctx, "tenant1", auditlog.QueryOptions{Window: &today, Category: "user"})
	require.NoError(t, err)
	require.Equal(t, []string{"e2"}, ids(res))
}

func TestParseInitiator(t *testing.T) {
	i, err := auditlog.ParseInitiator("all")
	require.NoError(t, err)
	require.Nil(t, i)

	i, err = auditlog.ParseInitiator(" Admin ")
	require.NoError(t, err)
	require.Equal(t, auditlog.InitiatorAdmin, *i)

	_, err = auditlog.ParseInitiator("robot")
	require.ErrorIs(t, err, auditlog.ErrInvalidInput)
	require.ErrorContains(t, err, `"robot"`)
}
