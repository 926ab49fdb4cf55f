package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_Middleware(t *testing.T) {
	s := setupTestServer(t)
	m := NewHTTPMetrics()
	assert.Same(t, m, s.metrics)

	counter := m.RequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.echo.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveRequests))
}

func TestNormalizeRoute(t *testing.T) {
	assert.Equal(t, "unmatched", normalizeRoute(""))
	assert.Equal(t, "/api/v1/adjust", normalizeRoute("/api/v1/adjust"))
}
