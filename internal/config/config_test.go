package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, time.Monday, cfg.Query.Weekday())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consentdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /var/lib/consentdesk/data.db
auth:
  enabled: false
query:
  week_start: sunday
  page_size: 25
`), 0o644))

	t.Setenv("CONSENTDESK_CONFIG_PATH", path)
	t.Setenv("CONSENTDESK_SERVER_PORT", "9191")
	t.Setenv("CONSENTDESK_TRANSPORT_MODE", "stdio")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "/var/lib/consentdesk/data.db", cfg.DB.Path)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, time.Sunday, cfg.Query.Weekday())
	require.Equal(t, 25, cfg.Query.PageSize)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := map[string]string{
		"CONSENTDESK_SERVER_PORT":     "http",
		"CONSENTDESK_AUTH_ENABLED":    "maybe",
		"CONSENTDESK_QUERY_PAGE_SIZE": "-1",
		"CONSENTDESK_TRANSPORT_MODE":  "carrier-pigeon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONSENTDESK_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestQueryConfig_Weekday(t *testing.T) {
	require.Equal(t, time.Saturday, QueryConfig{WeekStart: "Saturday"}.Weekday())
	require.Equal(t, time.Monday, QueryConfig{WeekStart: "someday"}.Weekday())
	require.Equal(t, time.Monday, QueryConfig{}.Weekday())
}
