package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elizabethzhu1/newsmapper/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_RecordsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg, "test")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/headlines/:source", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/headlines/nytimes", "/headlines/guardian", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/headlines/:source", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "unmatched", "404")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.InFlight), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}
