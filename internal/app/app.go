package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"supplychain/internal/config"
	"supplychain/internal/dataprocessing"
	apierrors "supplychain/internal/errors"
	"supplychain/internal/files"
	"supplychain/internal/infrastructure"
	customMiddleware "supplychain/internal/middleware"
	"supplychain/internal/services"
	handlers "supplychain/internal/transport/http"
	ws "supplychain/internal/websocket"
)

const (
	VERSION = "v" + config.AppVersion
	AppName = config.AppName
)

// BuildTime is set at compile time
var BuildTime = time.Now().Format(time.RFC3339)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	WebSocketHub     *ws.Hub
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Scheduler        *services.ReloadScheduler
	Watcher          *files.Watcher
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.BusinessMetrics
	ErrorHandler     *apierrors.ErrorHandler
	Validator        *customMiddleware.Validator
}

// NewApplication loads the configuration and wires every component.
// The workbook is loaded before it returns; a workbook that cannot be
// read or parsed is an error.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("workbook", cfg.Data.WorkbookPath))

	return newApplication(cfg, logger)
}

func newApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	otelProviders, err := infrastructure.InitializeOTel(otelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  handlers.NewErrorHandler(logger, false),
		Validator:     customMiddleware.NewValidator(logger),
	}

	if err := app.initializeServices(); err != nil {
		app.release(context.Background())
		return nil, err
	}

	if err := app.setupRouter(); err != nil {
		app.release(context.Background())
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// otelConfig maps the telemetry section onto the OpenTelemetry setup
func otelConfig(t config.TelemetryConfig) *infrastructure.OTelConfig {
	cfg := infrastructure.DefaultOTelConfig()
	cfg.ServiceVersion = config.AppVersion
	if t.Environment != "" {
		cfg.Environment = t.Environment
	}
	cfg.TraceExporter = t.TraceExporter
	cfg.EnableMetrics = t.EnableMetrics
	if !t.EnableMetrics {
		cfg.MetricExporter = "none"
	}
	if t.SampleRatio > 0 {
		cfg.SampleRatio = t.SampleRatio
	}
	return cfg
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	wsMetrics, err := ws.NewMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}

	hub := ws.NewHub(a.Logger, ws.Options{
		PingPeriod: a.Config.WebSocket.PingPeriod,
		PongWait:   a.Config.WebSocket.PongWait,
	}, wsMetrics)
	hub.Start()
	a.WebSocketHub = hub

	a.DashboardService = services.NewDashboardService(
		a.Config.Data.WorkbookPath,
		a.Config.Data.Sheet,
		dataprocessing.LoadDataset,
		hub,
		metrics,
		a.Logger,
	)

	ctx := context.Background()
	if _, err := a.DashboardService.Reload(ctx, services.TriggerStartup); err != nil {
		a.logWorkbookHints(ctx)
		return fmt.Errorf("failed to load workbook %s: %w", a.Config.Data.WorkbookPath, err)
	}

	discovery := files.NewDiscovery("")
	a.HealthService = services.NewHealthService(VERSION, BuildTime, a.DashboardService, hub, discovery, a.Logger)

	if a.Config.Data.Watch {
		watcher, err := files.NewWatcher(a.Config.Data.WorkbookPath, a.Config.Data.WatchDebounce, a.Logger)
		if err != nil {
			// reloads stay available through the API and the schedule
			a.Logger.WarnContext(ctx, "Workbook watcher disabled",
				slog.String("path", a.Config.Data.WorkbookPath),
				slog.String("error", err.Error()))
		} else {
			a.Watcher = watcher
		}
	}

	if a.Config.Data.ReloadSchedule != "" {
		scheduler, err := services.NewReloadScheduler(a.Config.Data.ReloadSchedule, a.DashboardService, a.Config.Server.RequestTimeout, a.Logger)
		if err != nil {
			return err
		}
		a.Scheduler = scheduler
	}

	return nil
}

// logWorkbookHints lists the workbooks next to the configured path so a
// misnamed file is easy to spot
func (a *Application) logWorkbookHints(ctx context.Context) {
	dir := filepath.Dir(a.Config.Data.WorkbookPath)
	found, err := files.NewDiscovery("").FindExcelFiles(dir)
	if err != nil || len(found) == 0 {
		return
	}
	names := make([]string, 0, len(found))
	for _, f := range found {
		names = append(names, f.Name)
	}
	a.Logger.InfoContext(ctx, "Workbooks found in data directory",
		slog.String("dir", dir),
		slog.Any("files", names))
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// Follow ordering: RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders
	otelMiddleware := customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// WebSocket connections are long lived and must not see the request timeout
	wsHandler := ws.NewHandler(a.WebSocketHub,
		a.Config.WebSocket.ReadBufferSize,
		a.Config.WebSocket.WriteBufferSize,
		a.Config.Security.AllowedOrigins)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle(config.WebSocketEndpoint, wsHandler)

	r.Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	pageHandler, err := handlers.NewPageHandler(a.DashboardService, a.Validator, a.ErrorHandler, config.WebSocketEndpoint, a.Logger)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.ErrorHandler))

		r.Get("/", pageHandler.ServeDashboard)
		a.setupAPIRoutes(r)
	})

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	dataHandler := handlers.NewDataHandler(a.DashboardService, a.Validator, a.Logger, a.ErrorHandler)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Post("/logs", clientLogHandler.Handle)

		r.Mount("/", dataHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server and the background reload triggers
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if a.Watcher != nil {
		go func() {
			if err := a.DashboardService.Watch(ctx, a.Watcher); err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.ErrorContext(ctx, "Workbook watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	if a.Scheduler != nil {
		a.Scheduler.Start()
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", a.Server.Addr))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.release(shutdownCtx)

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// release stops background components in reverse start order
func (a *Application) release(ctx context.Context) {
	if a.Scheduler != nil {
		select {
		case <-a.Scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}

	if a.Watcher != nil {
		if err := a.Watcher.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "Error closing workbook watcher", slog.String("error", err.Error()))
		}
	}

	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	// the run context may already be cancelled
	return a.Stop(context.Background())
}
