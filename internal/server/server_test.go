package server

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetintel/connectivity-intel/internal/config"
	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/store"
	"github.com/fleetintel/connectivity-intel/internal/synth"
)

func newTestServer(t *testing.T, metrics *Metrics) *gin.Engine {
	t.Helper()

	cfg := synth.DefaultConfig()
	cfg.ReferenceTime = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	sy, err := synth.New(cfg)
	require.NoError(t, err)

	fleet := synth.DemoFleet(10)
	snapshot, err := sy.Synthesize(fleet, 42)
	require.NoError(t, err)

	if metrics != nil {
		metrics.ObserveSnapshot(snapshot)
	}

	return New(&Dependencies{
		Config: &config.Config{
			Server: config.ServerConfig{Port: "8080", RateLimitPerMinute: 1000},
			Fleet:  config.FleetConfig{Size: 10, TowerCount: cfg.TowerCount, Seed: 42},
		},
		Store:       store.NewMemoryStore(snapshot),
		Synthesizer: sy,
		Fleet:       fleet,
		Logger:      zap.NewNop(),
		Metrics:     metrics,
	})
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestServerHealthRoute(t *testing.T) {
	router := newTestServer(t, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestServerSetsRequestID(t *testing.T) {
	router := newTestServer(t, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/health")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServerKeepsProvidedRequestID(t *testing.T) {
	router := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "test-request-id-123", w.Header().Get("X-Request-ID"))
}

func TestServerFleetRoutes(t *testing.T) {
	router := newTestServer(t, nil)

	for _, target := range []string{
		"/api/v1/fleet",
		"/api/v1/fleet/summary",
		"/api/v1/alerts",
		"/api/v1/errors",
		"/api/v1/towers",
		"/api/v1/map/markers",
		"/api/v1/globe/markers",
		"/api/v1/lookup?q=Demo-01",
		"/api/v1/export/csv",
	} {
		w := doRequest(router, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s", target)
	}
}

func TestServerFleetGetByID(t *testing.T) {
	router := newTestServer(t, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/fleet")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Vehicles []models.VehicleConnectivityRecord `json:"vehicles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Vehicles)

	w = doRequest(router, http.MethodGet, "/api/v1/fleet/"+resp.Vehicles[0].VehicleID)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/fleet/no-such-vehicle")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerRegenerateRoute(t *testing.T) {
	router := newTestServer(t, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/regenerate?seed=99")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Seed int64 `json:"seed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(99), resp.Seed)
}

func TestServerGzipEncoding(t *testing.T) {
	router := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fleet", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"vehicles"`)
}

func TestServerMetricsRoute(t *testing.T) {
	router := newTestServer(t, NewMetrics())

	w := doRequest(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fleet_vehicles")
	assert.Contains(t, w.Body.String(), "fleet_cell_towers")

	// A regeneration bumps the counter through the OnSwap hook.
	doRequest(router, http.MethodPost, "/api/v1/regenerate?seed=5")
	w = doRequest(router, http.MethodGet, "/metrics")
	assert.Contains(t, w.Body.String(), "fleet_snapshot_regenerations_total 1")
}

func TestServerMetricsDisabled(t *testing.T) {
	router := newTestServer(t, nil)

	w := doRequest(router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerCORSHeaders(t *testing.T) {
	router := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/fleet", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
