// Package metrics exposes Prometheus collectors for the HTTP API and auth flows.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authAttemptsTotal   *prometheus.CounterVec
	purchasesTotal      prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		gatherer: reg,
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		authAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Signup, login and logout attempts by principal kind and outcome.",
			},
			[]string{"kind", "action", "outcome"},
		),
		purchasesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "course_purchases_total",
			Help: "Recorded course purchases.",
		}),
	}
	reg.MustRegister(m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration, m.authAttemptsTotal, m.purchasesTotal)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests. Routes are
// labelled by their registered pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.httpInFlight.Inc()
			defer m.httpInFlight.Dec()
			start := time.Now()

			err := next(c)

			// errors already rendered by an inner middleware leave their status on the response
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			m.httpRequestsTotal.WithLabelValues(labels...).Inc()
			return err
		}
	}
}

// AuthAttempt counts one auth action for kind. outcome is "success" or "failure".
func (m *Metrics) AuthAttempt(kind, action string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.authAttemptsTotal.WithLabelValues(kind, action, outcome).Inc()
}

// Purchase counts one recorded purchase.
func (m *Metrics) Purchase() {
	if m == nil {
		return
	}
	m.purchasesTotal.Inc()
}
