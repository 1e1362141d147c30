package http

import (
	"bytes"
	"encoding/json"
	"io"
	gohttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sqlcanvas/sqlcanvas/server/auth"
	"github.com/sqlcanvas/sqlcanvas/server/config"
	"github.com/sqlcanvas/sqlcanvas/server/credentials"
	"github.com/sqlcanvas/sqlcanvas/server/engine"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"github.com/sqlcanvas/sqlcanvas/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	cfg := config.LoadDefaultConfig()
	cfg.Storage.DataPath = filepath.Join(dir, "user_dbs")
	cfg.Metadata.Path = filepath.Join(dir, "meta.db")

	meta, err := metadata.NewStore(cfg.Metadata.Path)
	require.NoError(t, err)
	t.Cleanup(func() { meta.Close() })

	backend := storage.NewSQLiteBackend(cfg.Storage.DataPath)
	eng := engine.New(backend, meta, zerolog.Nop())
	authSvc := auth.NewService(meta, time.Hour)
	creds, err := credentials.NewManager(meta, "test-passphrase")
	require.NoError(t, err)

	srv, err := NewServer(cfg, eng, meta, authSvc, creds, zerolog.Nop())
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) (*gohttp.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func loginUser(t *testing.T, srv *Server) string {
	t.Helper()
	resp, _ := doJSON(t, srv, "POST", "/api/auth/register", "", map[string]string{
		"username": "grace", "email": "grace@example.com", "password": "hunter22",
	})
	require.Equal(t, gohttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"username": "grace", "password": "hunter22",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, srv, "GET", "/health", "", nil)
	assert.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, srv, "POST", "/api/query", "", map[string]string{"query": "SELECT 1"})
	assert.Equal(t, gohttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, srv, "POST", "/api/query", "bogus-token", map[string]string{"query": "SELECT 1"})
	assert.Equal(t, gohttp.StatusUnauthorized, resp.StatusCode)
}

func TestQueryLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := loginUser(t, srv)

	resp, body := doJSON(t, srv, "POST", "/api/query", token, map[string]string{
		"query": "CREATE TABLE notes (id INTEGER PRIMARY KEY, text TEXT)",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "CREATE", body["query_type"])

	resp, body = doJSON(t, srv, "POST", "/api/query", token, map[string]string{
		"query": "INSERT INTO notes (text) VALUES ('hello'), ('world')",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["affected_rows"])

	resp, body = doJSON(t, srv, "POST", "/api/query", token, map[string]string{
		"query": "SELECT id, text FROM notes ORDER BY id",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["result_count"])

	// Failures still come back 200 with a structured error.
	resp, body = doJSON(t, srv, "POST", "/api/query", token, map[string]string{
		"query": "SELECT * FROM missing",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])

	resp, body = doJSON(t, srv, "GET", "/api/history", token, nil)
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	history, _ := body["history"].([]interface{})
	assert.Len(t, history, 4)
}

func TestTableEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := loginUser(t, srv)

	doJSON(t, srv, "POST", "/api/query", token, map[string]string{
		"query": "CREATE TABLE orders (id INTEGER PRIMARY KEY, total REAL NOT NULL)",
	})
	doJSON(t, srv, "POST", "/api/query", token, map[string]string{
		"query": "INSERT INTO orders (total) VALUES (9.5), (12.0)",
	})

	resp, body := doJSON(t, srv, "GET", "/api/tables", token, nil)
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	tables, _ := body["tables"].([]interface{})
	assert.Contains(t, tables, "orders")

	resp, body = doJSON(t, srv, "GET", "/api/tables/orders", token, nil)
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	columns, _ := body["columns"].([]interface{})
	assert.Len(t, columns, 2)

	resp, body = doJSON(t, srv, "GET", "/api/tables/orders/sample?limit=1", token, nil)
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	rows, _ := body["rows"].([]interface{})
	assert.Len(t, rows, 1)

	resp, _ = doJSON(t, srv, "GET", "/api/tables/nope", token, nil)
	assert.Equal(t, gohttp.StatusNotFound, resp.StatusCode)
}

func TestVisualizeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := loginUser(t, srv)

	resp, body := doJSON(t, srv, "POST", "/api/visualize", token, map[string]interface{}{
		"columns":    []string{"region", "total_sales"},
		"data":       []map[string]interface{}{{"region": "north", "total_sales": 12}, {"region": "south", "total_sales": 9}},
		"query_type": "SELECT",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "bar", body["type"])
	assert.Equal(t, "region", body["x_column"])

	resp, body = doJSON(t, srv, "POST", "/api/visualize", token, map[string]interface{}{
		"columns":    []string{"a"},
		"data":       []map[string]interface{}{},
		"query_type": "SELECT",
	})
	assert.Equal(t, gohttp.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestFlowDiagramEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := loginUser(t, srv)

	resp, body := doJSON(t, srv, "POST", "/api/flow-diagram", token, map[string]string{
		"query": "SELECT name FROM users WHERE age > 30",
	})
	require.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "SELECT", body["query_type"])
	steps, _ := body["steps"].([]interface{})
	assert.Equal(t, []interface{}{"FROM Tables", "WHERE Filter", "SELECT Columns"}, steps)
}

func TestExplainWithoutCredential(t *testing.T) {
	srv := newTestServer(t)
	token := loginUser(t, srv)

	resp, body := doJSON(t, srv, "POST", "/api/explain-query", token, map[string]string{
		"query": "SELECT 1",
	})
	assert.Equal(t, gohttp.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"], "missing credential must be reported before any model call")
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, srv, "POST", "/api/auth/register", "", map[string]string{
		"username": "", "password": "",
	})
	assert.Equal(t, gohttp.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	loginUser(t, srv)

	resp, _ := doJSON(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"username": "grace", "password": "wrong",
	})
	assert.Equal(t, gohttp.StatusUnauthorized, resp.StatusCode)
}
