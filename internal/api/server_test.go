package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoodsync/internal/app"
	"hoodsync/internal/config"
	"hoodsync/internal/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hood := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<response><status>ok</status></response>"))
	}))
	t.Cleanup(hood.Close)

	cfg := &config.Config{
		TestCSV:     "mpnr,name,price\n12345,Test Produkt,19.99\n777,,4.00\n",
		AccountName: "acc",
		Password:    "pw",
		Endpoint:    hood.URL,
		LookupMode:  config.LookupBulk,
		DatabaseURL: "sqlite://:memory:",
		Env:         "test",
	}
	log := logger.Discard()

	a, err := app.New(cfg, log, app.Options{Trigger: "api"})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return New(cfg, log, a)
}

func get(s *Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestServerSyncAndHistory(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, http.MethodPost, "/api/v1/sync")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool           `json:"success"`
		RunID   string         `json:"run_id"`
		Stats   map[string]int `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, map[string]int{"inserted": 1, "updated": 0, "skipped": 1, "errors": 0}, body.Stats)

	rec = get(s, http.MethodGet, "/api/v1/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), body.RunID)

	rec = get(s, http.MethodGet, "/api/v1/runs/"+body.RunID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION"`)

	rec = get(s, http.MethodGet, "/api/v1/issues?run_id="+body.RunID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = get(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hoodsync_rows_total{outcome="inserted"} 1`)
	assert.Contains(t, rec.Body.String(), `hoodsync_remote_calls_total{function="itemInsert",result="ok"} 1`)
}

func TestServerHealth(t *testing.T) {
	s := newTestServer(t)
	rec := get(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestInvocationRouterAnyPath(t *testing.T) {
	s := newTestServer(t)
	r := NewInvocationRouter(logger.Discard(), s.app.Orchestrator)

	req := httptest.NewRequest(http.MethodGet, "/.netlify/functions/hood_sync", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Body.String(), `"success":true`)
}
