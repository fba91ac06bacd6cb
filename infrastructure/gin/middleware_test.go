package gin_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	infragin "github.com/elizabethzhu1/newsmapper/infrastructure/gin"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	ginpkg "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	ginpkg.SetMode(ginpkg.TestMode)
}

func newTestServer(t *testing.T, checks map[string]infragin.HealthChecker) *ginpkg.Engine {
	t.Helper()

	srv := infragin.NewServer(&infragin.Config{
		Port:        0,
		ServiceName: "newsmapper",
		Checks:      checks,
	}, logger.NewNop(), func(r *ginpkg.Engine) {
		r.GET("/test", func(c *ginpkg.Context) {
			if logger.FromContext(c.Request.Context()) == nil {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, "ok")
		})
		r.GET("/panic", func(*ginpkg.Context) { panic("boom") })
	})
	return srv.Router()
}

func TestRequestIDLoggerMiddleware_GeneratesID(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get("X-Request-ID"), 32)
}

func TestRequestIDLoggerMiddleware_PreservesAndRejects(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "upstream-abc123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-abc123", w.Header().Get("X-Request-ID"))

	oversized := strings.Repeat("x", 200)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", oversized)
	router.ServeHTTP(w, req)
	assert.NotEqual(t, oversized, w.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth_ReportsChecks(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, map[string]infragin.HealthChecker{
		"redis": infragin.PingChecker(func() error { return errors.New("connection refused") }, true),
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	var resp infragin.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, infragin.HealthStatusDegraded, resp.Status)
	assert.Equal(t, "newsmapper", resp.Service)
	assert.Equal(t, infragin.HealthStatusDegraded, resp.Checks["redis"].Status)
}
