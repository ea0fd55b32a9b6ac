package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDatabaseAndWiresServices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "consentdesk.db")
	a, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx := context.Background()
	_, err = a.Requests.Create(ctx, "tenant1", dsr.CreateRequest{Email: "ann@example.com", Type: dsr.TypeAccess})
	require.NoError(t, err)

	created, err := a.Keys.Create(ctx, "tenant1", apikey.CreateRequest{Name: "ci"})
	require.NoError(t, err)
	tenantID, err := a.Keys.ResolveTenant(ctx, created.Secret)
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenantID)

	sum, err := a.Dashboard.Summarize(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 1, sum.Requests)
	require.Equal(t, 1, sum.ActiveKeys)

	svc := a.MCPServices()
	require.NotNil(t, svc.DataMap)
	require.NotNil(t, svc.Dashboard)
}

func TestNew_RecordsEveryDomainAuditEvent(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	a := New(db, nil)
	t.Cleanup(func() { _ = a.Close() })

	ctx := context.Background()
	var last *dsr.Request
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		last, err = a.Requests.Create(ctx, "tenant1", dsr.CreateRequest{Email: email, Type: dsr.TypeAccess})
		require.NoError(t, err)
	}
	_, err = a.Requests.Transition(ctx, "tenant1", dsr.TransitionRequest{ID: last.ID, ToState: dsr.StatusInProgress})
	require.NoError(t, err)
	_, err = a.Keys.Create(ctx, "tenant1", apikey.CreateRequest{Name: "ci"})
	require.NoError(t, err)

	res, err := a.Audit.Query(ctx, "tenant1", auditlog.QueryOptions{Category: "dsr"})
	require.NoError(t, err)
	require.Equal(t, 4, res.Total)
	for _, e := range res.Results {
		require.NotEmpty(t, e.ID)
		require.Equal(t, auditlog.InitiatorAdmin, e.Initiator)
	}

	res, err = a.Audit.Query(ctx, "tenant1", auditlog.QueryOptions{Category: "apikey"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
}
