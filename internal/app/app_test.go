package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/internal/config"
	"supplychain/internal/dataprocessing"
	"supplychain/internal/shared/testutil"
	"supplychain/pkg/contracts/events"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data.WorkbookPath = testutil.WriteWorkbook(t, t.TempDir(), "orders.xlsx", testutil.SampleOrderRows())
	cfg.Data.Watch = false
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := newApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { app.release(context.Background()) })
	return app
}

func TestNewApplicationMissingWorkbook(t *testing.T) {
	cfg := config.Default()
	cfg.Data.WorkbookPath = filepath.Join(t.TempDir(), "missing.xlsx")
	cfg.Data.Watch = false

	logger, _ := testutil.NewTestLogger(t)
	app, err := newApplication(cfg, logger)

	require.Error(t, err)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, dataprocessing.ErrLoad)
	assert.Contains(t, err.Error(), "missing.xlsx")
}

func TestNewApplicationInvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.ReloadSchedule = "every tuesday"

	logger, _ := testutil.NewTestLogger(t)
	_, err := newApplication(cfg, logger)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reload schedule")
}

func TestNewApplicationWiring(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Watch = true
	cfg.Data.ReloadSchedule = "@every 1h"
	app := newTestApplication(t, cfg)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.Equal(t, cfg.Server.Addr(), app.Server.Addr)
	assert.Equal(t, cfg.Server.MaxHeaderBytes, app.Server.MaxHeaderBytes)
	assert.NotNil(t, app.Watcher)
	assert.NotNil(t, app.Scheduler)
	assert.NotNil(t, app.OTelProviders.PrometheusHTTP)

	status := app.DashboardService.Status()
	assert.True(t, status.Available)
	require.NotNil(t, status.Dataset)
	assert.Equal(t, 3, status.Dataset.Rows)
}

func TestRouter(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	tests := []struct {
		name        string
		method      string
		path        string
		status      int
		contentType string
	}{
		{"dashboard page", http.MethodGet, "/", http.StatusOK, "text/html"},
		{"dashboard json", http.MethodGet, "/api/dashboard?supplier=SupplierA", http.StatusOK, "application/json"},
		{"chart svg", http.MethodGet, "/api/charts/lead-time.svg", http.StatusOK, "image/svg+xml"},
		{"unknown chart", http.MethodGet, "/api/charts/radar.svg", http.StatusNotFound, "application/problem+json"},
		{"csv export", http.MethodGet, "/api/orders.csv", http.StatusOK, "text/csv"},
		{"dataset status", http.MethodGet, "/api/dataset", http.StatusOK, "application/json"},
		{"health", http.MethodGet, "/api/health", http.StatusOK, "application/json"},
		{"readiness", http.MethodGet, "/api/health/ready", http.StatusOK, "application/json"},
		{"liveness", http.MethodGet, "/api/health/live", http.StatusOK, "application/json"},
		{"version", http.MethodGet, "/api/version", http.StatusOK, "application/json"},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "text/plain"},
		{"not found", http.MethodGet, "/nope", http.StatusNotFound, "application/problem+json"},
		{"bad date", http.MethodGet, "/api/dashboard?from=01/02/2024", http.StatusBadRequest, "application/problem+json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.contentType),
				"content type %q", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRouterReload(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "reloaded", body["status"])

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/reload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterMetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.EnableMetrics = false
	app := newTestApplication(t, cfg)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketReloadNotification(t *testing.T) {
	app := newTestApplication(t, testConfig(t))
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + config.WebSocketEndpoint
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readMessage := func() events.WebSocketMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg events.WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, events.MessageTypeConnect, readMessage().Type)

	resp, err := http.Post(srv.URL+"/api/dataset/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg := readMessage()
	assert.Equal(t, events.MessageTypeDatasetReloaded, msg.Type)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["rows"])
	assert.Equal(t, "api", data["trigger"])
}

func TestStartStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	app := newTestApplication(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	assert.NoError(t, app.Stop(context.Background()))
}
