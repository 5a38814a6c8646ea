package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.RequestHandled()
	m.RequestHandled()
	m.Response(200)
	m.Response(501)
	m.Response(200)
	m.SessionCreated()
	m.SessionCreated()
	m.SessionCreated()
	m.SessionsExpired(2)
	m.SessionsExpired(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsHandled))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.responses.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responses.WithLabelValues("501")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RequestHandled()
		m.Response(200)
		m.SessionCreated()
		m.SessionsExpired(1)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler(t *testing.T) {
	m := New()
	m.RequestHandled()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "embedhttp_http_requests_handled_total 1"))
}
