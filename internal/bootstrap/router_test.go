package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serp-db/serp-backend/config"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Store:   config.StoreConfig{Backend: config.BackendMemory, SeedPath: "../../seed/catalog.json"},
		Catalog: config.CatalogConfig{FetchTimeout: 5 * time.Second, MaxConcurrency: 4},
	}
	store, closeStore, err := OpenStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(closeStore)

	return BuildRouter(RouterDeps{
		ServiceName: "serp-backend",
		Version:     "test",
		CORSOrigins: []string{"https://serp.example.org"},
		Catalog:     NewCatalogService(&cfg.Catalog, store, nil),
		Checks:      Checks(store, nil),
	})
}

func TestBuildRouter_Projects(t *testing.T) {
	router := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	var body struct {
		Projects []struct {
			ID       string `json:"id"`
			Creators []struct {
				Name string `json:"Name"`
			} `json:"creators"`
		} `json:"projects"`
		ProjectOfTheYear struct {
			ID string `json:"id"`
		} `json:"projectOfTheYear"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Projects, 2)
	assert.Equal(t, "p-oven", body.Projects[0].ID)
	assert.Len(t, body.Projects[0].Creators, 1)
	assert.Equal(t, "p-bees", body.Projects[1].ID)
	assert.Equal(t, "p-oven", body.ProjectOfTheYear.ID)
}

func TestBuildRouter_InspirationBinViaHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inspiration-bin", nil)
	req.Header.Set("X-User-Id", "google-oauth2|118170320184413952065")
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"p-bees"`)
	assert.NotContains(t, rr.Body.String(), `"p-archived"`)
}

func TestBuildRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://serp.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://serp.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestBuildRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"store":"up"`)
	assert.Contains(t, rr.Body.String(), `"redis":"disabled"`)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))

	l := newLimiter(2.5)
	require.NotNil(t, l)
	assert.Equal(t, 3, l.Burst())
	assert.InDelta(t, 2.5, float64(l.Limit()), 1e-9)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "mongo"}}, nil)
	assert.Error(t, err)
}
