package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/courses/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound)
	})

	for _, path := range []string{"/courses/1", "/courses/2", "/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/courses/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestAuthAttemptAndPurchase(t *testing.T) {
	m := New()
	m.AuthAttempt("user", "login", true)
	m.AuthAttempt("user", "login", false)
	m.AuthAttempt("user", "login", false)
	m.Purchase()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttemptsTotal.WithLabelValues("user", "login", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttemptsTotal.WithLabelValues("user", "login", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.purchasesTotal))

	var disabled *Metrics
	assert.NotPanics(t, func() {
		disabled.AuthAttempt("admin", "signup", true)
		disabled.Purchase()
	})
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.Purchase()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "course_purchases_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
