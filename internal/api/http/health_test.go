package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, checks map[string]Pinger, method, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler("serp-backend", "1.0.0", checks).RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

	var response HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	}
	return rr, response
}

func TestHealthCheck(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })

	for _, path := range []string{"/health", "/healthz"} {
		rr, response := serveHealth(t, map[string]Pinger{"store": ok, "redis": nil}, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "serp-backend", response.Service)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, map[string]string{"store": "up", "redis": "disabled"}, response.Checks)
	}
}

func TestHealthCheckDegraded(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("unreachable") })

	rr, response := serveHealth(t, map[string]Pinger{"store": down}, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "degraded", response.Status)
	assert.Equal(t, "down", response.Checks["store"])
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := serveHealth(t, nil, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
