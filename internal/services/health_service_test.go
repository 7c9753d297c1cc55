package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/internal/dataprocessing"
	"supplychain/internal/files"
	"supplychain/internal/shared/testutil"
	"supplychain/pkg/contracts/domain"
)

type stubCounter int

func (c stubCounter) ClientCount() int { return int(c) }

func TestHealthServiceBeforeLoad(t *testing.T) {
	svc, _ := newTestService(t, nil)
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.0.0", "", svc, stubCounter(0), files.NewDiscovery(""), logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusDegraded, health.Status)

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, StatusNotReady, ready.Status)
	assert.Equal(t, StatusNotReady, ready.Services["dataset"].Status)
	assert.Equal(t, StatusReady, ready.Services["workbook"].Status)
}

func TestHealthServiceReady(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Reload(context.Background(), TriggerStartup)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.0.0", "2026-01-01", svc, stubCounter(2), nil, logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, health.Status)
	assert.Equal(t, "1.0.0", health.Version)

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, StatusReady, ready.Status)
	assert.Equal(t, "3 orders loaded", ready.Services["dataset"].Message)
	assert.Equal(t, "2 clients connected", ready.Services["websocket"].Message)
}

func TestHealthServiceFailedReload(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewDashboardService("missing.xlsx", "", dataprocessing.LoadDataset, nil, nil, logger)
	_, err := svc.Reload(context.Background(), TriggerStartup)
	require.Error(t, err)

	hs := NewHealthService("1.0.0", "", svc, stubCounter(0), nil, logger)

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, StatusNotReady, ready.Status)
	assert.Contains(t, ready.Services["dataset"].Message, "last reload failed")
	assert.Equal(t, StatusNotReady, ready.Services["workbook"].Status)
}

func TestHealthServiceWithoutHub(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewDashboardService("orders.xlsx", "", func(path, sheet string) (*domain.Dataset, error) {
		return domain.NewDataset(path, time.Now(), false, nil), nil
	}, nil, nil, logger)
	_, err := svc.Reload(context.Background(), TriggerStartup)
	require.NoError(t, err)

	hs := NewHealthService("1.0.0", "", svc, nil, nil, logger)
	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, StatusNotReady, ready.Status)
	assert.Equal(t, StatusNotReady, ready.Services["websocket"].Status)
}

func TestHealthServiceLivenessAndVersion(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2026-01-01", nil, nil, nil, logger)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2026-01-01", v["build_time"])
}
