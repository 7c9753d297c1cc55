package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

// TestTraceCorrelation tests trace ID correlation
func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	ctx = WithTraceID(ctx, traceID)
	assert.Equal(t, traceID, GetTraceID(ctx))

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

// TestBusinessMetrics tests business metrics creation
func TestBusinessMetrics(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.HTTPActiveRequests)
	assert.NotNil(t, metrics.DatasetReloadsTotal)
	assert.NotNil(t, metrics.DatasetReloadDuration)
	assert.NotNil(t, metrics.DatasetRows)
	assert.NotNil(t, metrics.DashboardBuilds)
	assert.NotNil(t, metrics.DashboardBuildDuration)
	assert.NotNil(t, metrics.DashboardFilteredRows)
	assert.NotNil(t, metrics.SystemErrors)
}

func TestCreateBusinessMetricsNilMeter(t *testing.T) {
	metrics, err := CreateBusinessMetrics(nil)
	require.NoError(t, err)

	// no-op instruments accept recordings
	RecordDatasetReload(context.Background(), metrics, "startup", 10, time.Millisecond, nil)
	RecordDashboardBuild(context.Background(), metrics, 3, time.Millisecond)
}

func TestRecordHelpersTolerateNilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDatasetReload(context.Background(), nil, "manual", 0, 0, errors.New("boom"))
		RecordDashboardBuild(context.Background(), nil, 0, 0)
	})
}

// TestPrometheusEndpoint tests the Prometheus metrics endpoint
func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordDatasetReload(context.Background(), metrics, "startup", 42, 20*time.Millisecond, nil)

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dataset_reloads_total")
	assert.Contains(t, string(body), "dataset_rows")
}

// TestOTelConfiguration tests different configuration options
func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		config  *OTelConfig
		wantErr bool
	}{
		{
			name: "tracing only",
			config: &OTelConfig{
				ServiceName:    "test",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				TraceExporter:  "none",
				MetricExporter: "none",
				EnableTracing:  true,
				SampleRatio:    1.0,
			},
		},
		{
			name: "metrics only",
			config: &OTelConfig{
				ServiceName:    "test",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				MetricExporter: "prometheus",
				EnableMetrics:  true,
			},
		},
		{
			name: "everything disabled",
			config: &OTelConfig{
				ServiceName: "test",
				Environment: "test",
			},
		},
		{
			name: "unknown trace exporter",
			config: &OTelConfig{
				ServiceName:   "test",
				TraceExporter: "jaeger",
				EnableTracing: true,
			},
			wantErr: true,
		},
		{
			name: "unknown metric exporter",
			config: &OTelConfig{
				ServiceName:    "test",
				MetricExporter: "statsd",
				EnableMetrics:  true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer providers.Shutdown(context.Background())

			assert.NotNil(t, providers.Tracer, "tracer falls back to the global provider")
			assert.NotNil(t, providers.Meter, "meter falls back to no-op")
		})
	}
}

// TestRecordError tests that RecordError marks the active span
func TestRecordError(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "failing")
	defer span.End()

	assert.NotPanics(t, func() { RecordError(ctx, assert.AnError) })
	assert.NotPanics(t, func() { RecordError(context.Background(), assert.AnError) })
}
