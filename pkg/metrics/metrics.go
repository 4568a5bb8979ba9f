package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores Prometheus del CRM. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthAttempts    *prometheus.CounterVec
	ResourceActions *prometheus.CounterVec
}

// New crea un registro propio con prefijo (namespace) para evitar registros duplicados entre tests.
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prefix,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: prefix,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prefix,
				Name:      "auth_attempts_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
		ResourceActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prefix,
				Name:      "resource_actions_total",
				Help:      "Custom actions executed on CRM resources",
			},
			[]string{"resource", "action"},
		),
	}
}

// ObserveHTTP registra una petición terminada.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.RequestCounter.WithLabelValues(method, path, code).Inc()
	m.RequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// AuthAttempt cuenta intentos de login ("success", "invalid_credentials", "inactive").
func (m *Metrics) AuthAttempt(result string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(result).Inc()
}

// ResourceAction cuenta una acción personalizada exitosa.
func (m *Metrics) ResourceAction(resource, action string) {
	if m == nil {
		return
	}
	m.ResourceActions.WithLabelValues(resource, action).Inc()
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer permite inspeccionar el registro (tests).
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
