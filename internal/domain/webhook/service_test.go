package webhook_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	require.NoError(t, webhook.ValidateURL("https://hooks.example.com/consent"))
	for _, raw := range []string{"http://example.com", "https://", "example.com/hook", "::"} {
		require.ErrorIs(t, webhook.ValidateURL(raw), webhook.ErrInvalidURL, raw)
	}
}

func TestWebhookService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[webhook.Webhook]{}
	repo.On("Create", ctx, "tenant1", mock.Anything).Return(nil)

	svc := webhook.NewService(repo, nil, nil)
	w, err := svc.Create(ctx, "tenant1", webhook.CreateRequest{
		URL:    " https://hooks.example.com/a ",
		Events: []string{webhook.EventDSRCreated, webhook.EventConsentGranted, webhook.EventDSRCreated},
	})
	require.NoError(t, err)
	require.Equal(t, "https://hooks.example.com/a", w.URL)
	require.Equal(t, []string{webhook.EventConsentGranted, webhook.EventDSRCreated}, w.Events)
	require.Equal(t, webhook.StatusActive, w.Status)

	_, err = svc.Create(ctx, "tenant1", webhook.CreateRequest{URL: "https://hooks.example.com/b"})
	require.ErrorIs(t, err, webhook.ErrInvalidInput)
	_, err = svc.Create(ctx, "tenant1", webhook.CreateRequest{URL: "https://hooks.example.com/b", Events: []string{"everything"}})
	require.ErrorIs(t, err, webhook.ErrInvalidInput)
}

func TestWebhookService_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.Store[webhook.Webhook]{}
	audit := &mocks.AuditRepository{}
	repo.On("Get", ctx, "tenant1", "whk_1").Return(&webhook.Webhook{ID: "whk_1", Status: webhook.StatusActive}, nil)
	repo.On("Update", ctx, "tenant1", mock.Anything).Return(nil)
	audit.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	svc := webhook.NewService(repo, audit, nil)
	w, err := svc.SetStatus(ctx, "tenant1", "whk_1", webhook.StatusPaused)
	require.NoError(t, err)
	require.Equal(t, webhook.StatusPaused, w.Status)

	_, err = svc.SetStatus(ctx, "tenant1", "whk_1", "deleted")
	require.ErrorIs(t, err, webhook.ErrInvalidInput)
	audit.AssertNumberOfCalls(t, "Log", 1)
}

func TestWebhookService_Query(t *testing.T) {
	ctx := context.Background()
	at := func(d int) time.Time { return time.Date(2024, time.April, d, 0, 0, 0, 0, time.UTC) }
	repo := &mocks.Store[webhook.Webhook]{}
	repo.On("List", ctx, "tenant1").Return([]webhook.Webhook{
		{ID: "w1", URL: "https://a.example.com", Events: []string{webhook.EventDSRCreated}, Status: webhook.StatusActive, CreatedAt: at(1)},
		{ID: "w2", URL: "https://b.example.com", Events: []string{webhook.EventConsentGranted, webhook.EventDSRCreated}, Status: webhook.StatusFailing, CreatedAt: at(3)},
		{ID: "w3", URL: "https://c.example.com", Events: []string{webhook.EventConsentRevoked}, Status: webhook.StatusActive, CreatedAt: at(2)},
	}, nil)
	svc := webhook.NewService(repo, nil, nil)

	res, err := svc.Query(ctx, "tenant1", webhook.QueryOptions{Event: webhook.EventDSRCreated, Sort: &query.Sort{Field: webhook.FieldCreatedAt}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, "w2", res.Results[0].ID)

	active, err := webhook.ParseStatus("active")
	require.NoError(t, err)
	res, err = svc.Query(ctx, "tenant1", webhook.QueryOptions{Status: active, Sort: &query.Sort{Field: webhook.FieldURL, Direction: query.Asc}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, "w1", res.Results[0].ID)
	require.Equal(t, "w3", res.Results[1].ID)
}
