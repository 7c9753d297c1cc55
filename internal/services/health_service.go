package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"supplychain/internal/files"
)

// DatasetStatusProvider reports the state of the published dataset
type DatasetStatusProvider interface {
	Status() DatasetStatus
	Path() string
}

// ClientCounter reports live websocket clients
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	dataset   DatasetStatusProvider
	hub       ClientCounter
	discovery *files.Discovery
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Uptime  string      `json:"uptime,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Health states
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// NewHealthService creates a health service. hub may be nil.
func NewHealthService(version, buildTime string, dataset DatasetStatusProvider, hub ClientCounter, discovery *files.Discovery, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if discovery == nil {
		discovery = files.NewDiscovery("")
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		dataset:   dataset,
		hub:       hub,
		discovery: discovery,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health. The process is healthy while it
// serves requests; a failed reload only degrades it.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset": hs.checkDatasetHealth(),
		},
	}
	if status.Services["dataset"].Status != StatusReady {
		status.Status = StatusDegraded
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return status
}

// ReadinessCheck reports ready only when a dataset is servable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset":   hs.checkDatasetHealth(),
			"workbook":  hs.checkWorkbookHealth(),
			"websocket": hs.checkWebSocketHealth(),
		},
	}

	// a missing workbook alone does not stop serving the last good snapshot
	if status.Services["dataset"].Status != StatusReady || status.Services["websocket"].Status != StatusReady {
		status.Status = StatusNotReady
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.dataset == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset service not initialized"}
	}

	st := hs.dataset.Status()
	switch {
	case st.LastAttempt.IsZero():
		return ServiceHealth{Status: StatusNotReady, Message: "dataset not loaded yet"}
	case !st.Available:
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("last reload failed: %s", st.Error),
			Details: st,
		}
	default:
		return ServiceHealth{
			Status:  StatusReady,
			Message: fmt.Sprintf("%d orders loaded", st.Dataset.Rows),
			Details: st,
		}
	}
}

func (hs *HealthService) checkWorkbookHealth() ServiceHealth {
	if hs.dataset == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset service not initialized"}
	}

	info, err := hs.discovery.Inspect(hs.dataset.Path())
	if err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: "workbook is readable",
		Details: info,
	}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "websocket hub not initialized"}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d clients connected", hs.hub.ClientCount()),
		Uptime:  time.Since(hs.startTime).String(),
	}
}
