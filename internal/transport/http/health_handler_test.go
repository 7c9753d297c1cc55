package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/internal/dataprocessing"
	"supplychain/internal/services"
	"supplychain/internal/shared/testutil"
)

type clientCount int

func (c clientCount) ClientCount() int { return int(c) }

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := newLoadedService(t)
	handler := NewHealthHandler(services.NewHealthService("v1.0.0-test", "", svc, clientCount(1), nil, logger), logger)

	tests := []struct {
		name           string
		handlerFunc    http.HandlerFunc
		expectedStatus int
		expectedKey    string
		expectedValue  interface{}
	}{
		{"health", handler.HealthCheck, http.StatusOK, "status", services.StatusOK},
		{"readiness", handler.ReadinessCheck, http.StatusOK, "status", services.StatusReady},
		{"liveness", handler.LivenessCheck, http.StatusOK, "status", services.StatusAlive},
		{"version", handler.Version, http.StatusOK, "version", "v1.0.0-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handlerFunc(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.expectedValue, body[tt.expectedKey])
		})
	}
}

func TestReadinessCheckNotReady(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewDashboardService("missing.xlsx", "", dataprocessing.LoadDataset, nil, nil, logger)
	_, err := svc.Reload(context.Background(), services.TriggerStartup)
	require.Error(t, err)

	handler := NewHealthHandler(services.NewHealthService("v1", "", svc, clientCount(0), nil, logger), logger)

	rec := httptest.NewRecorder()
	handler.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, services.StatusNotReady, decodeBody(t, rec)["status"])
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, NewErrorHandler(logger, false)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# HELP dataset_rows\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exporter, NewErrorHandler(logger, false)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "dataset_rows")
	})
}
