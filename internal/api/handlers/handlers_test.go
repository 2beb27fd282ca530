package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoodsync/internal/logger"
	"hoodsync/internal/models"
	"hoodsync/internal/store"
	"hoodsync/internal/syncer"
	"hoodsync/internal/syncerr"
)

type stubRunner struct {
	result *syncer.Result
	err    error
}

func (s stubRunner) Run(context.Context) (*syncer.Result, error) {
	return s.result, s.err
}

type stubRunStore struct {
	runs []models.SyncRun
}

func (s stubRunStore) ListRuns(context.Context, int) ([]models.SyncRun, error) {
	return s.runs, nil
}

func (s stubRunStore) GetRun(_ context.Context, id string) (*models.SyncRun, error) {
	for i := range s.runs {
		if s.runs[i].ID == id {
			return &s.runs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func serve(t *testing.T, h gin.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, "/x", h)
	r.Handle(method, "/x/:id", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) SyncResponse {
	t.Helper()
	var body SyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTriggerSuccess(t *testing.T) {
	finished := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	h := NewSyncHandler(stubRunner{result: &syncer.Result{
		RunID:      "run-1",
		Stats:      models.SyncStats{Inserted: 1},
		FinishedAt: finished,
	}}, logger.Discard())

	rec := serve(t, h.Trigger, http.MethodPost, "/x")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, successMessage, body.Message)
	assert.Empty(t, body.Error)
	require.NotNil(t, body.Stats)
	assert.Equal(t, models.SyncStats{Inserted: 1}, *body.Stats)
	assert.Equal(t, finished, body.Timestamp)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, map[string]any{"inserted": 1.0, "updated": 0.0, "skipped": 0.0, "errors": 0.0}, raw["stats"])
}

func TestTriggerTransportFailure(t *testing.T) {
	h := NewSyncHandler(stubRunner{err: &syncerr.TransportError{Op: "fetch feed", Err: errors.New("unexpected status 404")}}, logger.Discard())

	rec := serve(t, h.Trigger, http.MethodGet, "/x")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "fetch feed: unexpected status 404", body.Error)
	assert.Nil(t, body.Stats)
	assert.False(t, body.Timestamp.IsZero())
}

func TestTriggerConflict(t *testing.T) {
	h := NewSyncHandler(stubRunner{err: syncer.ErrRunInProgress}, logger.Discard())
	rec := serve(t, h.Trigger, http.MethodPost, "/x")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRunHandler(t *testing.T) {
	h := NewRunHandler(stubRunStore{runs: []models.SyncRun{{ID: "a", Status: models.SyncRunStatusCompleted}}}, logger.Discard())

	rec := serve(t, h.List, http.MethodGet, "/x")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"a"`)

	rec = serve(t, h.Get, http.MethodGet, "/x/a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"COMPLETED"`)

	rec = serve(t, h.Get, http.MethodGet, "/x/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
