package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

func TestMetrics_ContadoresConPrefijo(t *testing.T) {
	m := metrics.New("crm")

	m.ObserveHTTP(http.MethodGet, "/api/customers", 200, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/customers", 200, 5*time.Millisecond)
	m.AuthAttempt("success")
	m.ResourceAction("leads", "qualify")

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[f.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["crm_http_requests_total"])
	assert.Equal(t, 1.0, values["crm_auth_attempts_total"])
	assert.Equal(t, 1.0, values["crm_resource_actions_total"])
}

func TestMetrics_HandlerExponeMetricas(t *testing.T) {
	m := metrics.New("crm")
	m.ResourceAction("tickets", "resolve")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `crm_resource_actions_total{action="resolve",resource="tickets"} 1`))
}

func TestMetrics_NilNoFalla(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.AuthAttempt("success")
		m.ResourceAction("x", "y")
	})
}
