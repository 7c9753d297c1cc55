package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"supplychain/internal/charts"
	"supplychain/internal/dashboard"
	"supplychain/internal/exporter"
	"supplychain/internal/files"
	"supplychain/internal/infrastructure"
	"supplychain/pkg/contracts/domain"
	"supplychain/pkg/contracts/events"
)

// Reload triggers
const (
	TriggerStartup  = "startup"
	TriggerAPI      = "api"
	TriggerWatcher  = "watcher"
	TriggerSchedule = "schedule"
)

// Loader reads and normalizes the workbook at path
type Loader func(path, sheet string) (*domain.Dataset, error)

// Notifier is told about every reload attempt
type Notifier interface {
	NotifyDataset(ctx context.Context, event events.DatasetEvent)
}

// Reloader is the part of DashboardService driven by the watcher and the scheduler
type Reloader interface {
	Reload(ctx context.Context, trigger string) (domain.DatasetInfo, error)
}

// snapshot is one published state. dataset is the last good dataset and
// survives a failed reload; err is set when the latest attempt failed.
type snapshot struct {
	dataset     *domain.Dataset
	err         error
	trigger     string
	attemptedAt time.Time
}

// DatasetStatus describes the currently published dataset
type DatasetStatus struct {
	Loaded      bool                `json:"loaded"`
	Available   bool                `json:"available"`
	Dataset     *domain.DatasetInfo `json:"dataset,omitempty"`
	Error       string              `json:"error,omitempty"`
	LastTrigger string              `json:"last_trigger,omitempty"`
	LastAttempt time.Time           `json:"last_attempt,omitempty"`
}

// DashboardService owns the dataset snapshot and runs the dashboard pipeline over it
type DashboardService struct {
	path  string
	sheet string
	load  Loader

	current atomic.Pointer[snapshot]
	group   singleflight.Group

	notifier Notifier
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates the service. notifier and metrics may be nil.
func NewDashboardService(path, sheet string, load Loader, notifier Notifier, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DashboardService{
		path:     path,
		sheet:    sheet,
		load:     load,
		notifier: notifier,
		metrics:  metrics,
		tracer:   otel.Tracer("supplychain/services"),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// Path returns the workbook path
func (s *DashboardService) Path() string {
	return s.path
}

// Reload re-reads the workbook and publishes the result. Concurrent calls
// share one load. On failure the error is held and served until the next
// successful reload.
func (s *DashboardService) Reload(ctx context.Context, trigger string) (domain.DatasetInfo, error) {
	v, err, shared := s.group.Do("reload", func() (interface{}, error) {
		return s.reload(ctx, trigger)
	})
	if shared {
		s.logger.DebugContext(ctx, "reload shared with concurrent caller", slog.String("trigger", trigger))
	}
	info, _ := v.(domain.DatasetInfo)
	return info, err
}

func (s *DashboardService) reload(ctx context.Context, trigger string) (domain.DatasetInfo, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.reload", trace.WithAttributes(
		attribute.String("dataset.path", s.path),
		attribute.String("dataset.trigger", trigger),
	))
	defer span.End()

	start := time.Now()
	ds, err := s.load(s.path, s.sheet)
	duration := time.Since(start)

	infrastructure.RecordDatasetReload(ctx, s.metrics, trigger, ds.Len(), duration, err)

	prev := s.current.Load()
	next := &snapshot{trigger: trigger, attemptedAt: start}
	if prev != nil {
		next.dataset = prev.dataset
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		next.err = err
		s.current.Store(next)

		s.logger.ErrorContext(ctx, "dataset reload failed",
			slog.String("path", s.path),
			slog.String("trigger", trigger),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		s.notify(ctx, events.DatasetEvent{Source: s.path, Trigger: trigger, Error: err.Error()})

		return domain.DatasetInfo{}, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	next.dataset = ds
	s.current.Store(next)

	info := ds.Info()
	span.SetAttributes(attribute.Int("dataset.rows", info.Rows))
	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.String("path", s.path),
		slog.String("trigger", trigger),
		slog.Int("rows", info.Rows),
		slog.Bool("lead_time_derived", info.LeadTimeDerived),
		slog.Duration("duration", duration))
	s.notify(ctx, events.DatasetEvent{
		Source:   info.Source,
		Rows:     info.Rows,
		LoadedAt: info.LoadedAt,
		Trigger:  trigger,
	})

	return info, nil
}

func (s *DashboardService) notify(ctx context.Context, event events.DatasetEvent) {
	if s.notifier != nil {
		s.notifier.NotifyDataset(ctx, event)
	}
}

// Dataset returns the published dataset, or an error when none is servable
func (s *DashboardService) Dataset() (*domain.Dataset, error) {
	snap := s.current.Load()
	switch {
	case snap == nil:
		return nil, ErrDatasetNotLoaded
	case snap.err != nil:
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, snap.err)
	default:
		return snap.dataset, nil
	}
}

// Status reports what is published and how the last reload went
func (s *DashboardService) Status() DatasetStatus {
	snap := s.current.Load()
	if snap == nil {
		return DatasetStatus{}
	}

	status := DatasetStatus{
		Loaded:      snap.dataset != nil,
		Available:   snap.err == nil && snap.dataset != nil,
		LastTrigger: snap.trigger,
		LastAttempt: snap.attemptedAt,
	}
	if snap.dataset != nil {
		info := snap.dataset.Info()
		status.Dataset = &info
	}
	if snap.err != nil {
		status.Error = snap.err.Error()
	}
	return status
}

// Dashboard runs filter, aggregation and formatting for one selection
func (s *DashboardService) Dashboard(ctx context.Context, sel dashboard.Selection) (dashboard.View, error) {
	ds, err := s.Dataset()
	if err != nil {
		return dashboard.View{}, err
	}

	_, span := s.tracer.Start(ctx, "dashboard.build", trace.WithAttributes(
		attribute.Bool("filter.applied", sel.Applied),
		attribute.Int("filter.suppliers", len(sel.Suppliers)),
		attribute.Int("filter.products", len(sel.Products)),
	))
	defer span.End()

	start := time.Now()
	view := dashboard.Build(ds, sel)
	infrastructure.RecordDashboardBuild(ctx, s.metrics, view.Rows, time.Since(start))

	span.SetAttributes(
		attribute.Int("dataset.rows", view.TotalRows),
		attribute.Int("dashboard.rows", view.Rows),
	)
	return view, nil
}

// Chart renders one chart of the dashboard for sel as SVG
func (s *DashboardService) Chart(ctx context.Context, kind string, sel dashboard.Selection) ([]byte, error) {
	k, err := charts.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}

	view, err := s.Dashboard(ctx, sel)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, k, view.Charts); err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", k, err)
	}
	return buf.Bytes(), nil
}

// ExportCSV writes the filtered orders of sel to w and returns the row count
func (s *DashboardService) ExportCSV(ctx context.Context, sel dashboard.Selection, w io.Writer) (int, error) {
	view, err := s.Dashboard(ctx, sel)
	if err != nil {
		return 0, err
	}
	if err := exporter.WriteOrders(w, view.Orders); err != nil {
		return 0, fmt.Errorf("failed to export orders: %w", err)
	}
	return len(view.Orders), nil
}

// Watch reloads the dataset whenever watcher reports a change, until ctx ends
func (s *DashboardService) Watch(ctx context.Context, watcher *files.Watcher) error {
	return watcher.Run(ctx, func(path string) {
		s.logger.InfoContext(ctx, "workbook changed", slog.String("path", path))
		// failures are logged and held by reload
		_, _ = s.Reload(ctx, TriggerWatcher)
	})
}
