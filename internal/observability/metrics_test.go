package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveRow("inserted")
	m.ObserveRow("inserted")
	m.ObserveRow("skipped")
	m.ObserveRemoteCall("itemInsert", "ok")
	m.ObserveRun("completed", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCallsTotal.WithLabelValues("itemInsert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("completed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRow("failed")
		m.ObserveRemoteCall("itemList", "error")
		m.ObserveRun("failed", time.Second)
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveRow("updated")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hoodsync_rows_total{outcome="updated"} 1`)
}
