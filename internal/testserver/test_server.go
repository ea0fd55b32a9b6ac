// Package testserver runs a full consentdesk HTTP stack over an in-memory
// database for functional tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/consentdesk/internal/app"
	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/mcp"
	"github.com/rpggio/consentdesk/internal/sqlite"
	"github.com/rpggio/consentdesk/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	App      *app.App
	Token    string
	TenantID string
}

// New starts a server with auth enabled and issues a key for tenantID.
func New(t *testing.T, tenantID string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	a := app.New(db, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.Keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{},
	)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpHandler)
	mux.Handle("/", transport.NewServer(mcp.NewHandler(a.MCPServices(), nil), transport.AuthMiddleware(a.Keys), nil))
	server := httptest.NewServer(mux)

	ts := &TestServer{
		Server:   server,
		App:      a,
		TenantID: tenantID,
	}
	ts.Token, err = ts.AddAPIKey(tenantID)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return ts
}

// AddAPIKey issues a key for tenantID and returns its secret.
func (ts *TestServer) AddAPIKey(tenantID string) (string, error) {
	created, err := ts.App.Keys.Create(context.Background(), tenantID, apikey.CreateRequest{
		Name:   "testserver",
		Scopes: []string{apikey.ScopeAdmin},
	})
	if err != nil {
		return "", err
	}
	return created.Secret, nil
}

// RPCResponse is a decoded JSON-RPC response from /rpc.
type RPCResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data,omitempty"`
	} `json:"error,omitempty"`
}

// RPC posts a JSON-RPC call to /rpc with token as the bearer.
func (ts *TestServer) RPC(t *testing.T, token, method string, params any) (int, RPCResponse) {
	t.Helper()

	payload := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out RPCResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(r)
}

// Connect opens an MCP client session to /mcp authenticated with token.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
