package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronLogger adapts slog to the cron.Logger interface
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)...)
}

// ReloadScheduler reloads the dataset on a cron schedule
type ReloadScheduler struct {
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewReloadScheduler registers a reload job for spec (standard five-field
// cron syntax or a descriptor such as "@every 10m"). Overlapping runs are skipped.
func NewReloadScheduler(spec string, reloader Reloader, timeout time.Duration, logger *slog.Logger) (*ReloadScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "reload_scheduler"))
	if timeout <= 0 {
		timeout = time.Minute
	}

	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &ReloadScheduler{cron: c, spec: spec, timeout: timeout, logger: logger}
	if _, err := c.AddFunc(spec, func() { s.run(reloader) }); err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *ReloadScheduler) run(reloader Reloader) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// failures are logged and held by the reloader
	_, _ = reloader.Reload(ctx, TriggerSchedule)
}

// Start begins running the schedule in its own goroutine
func (s *ReloadScheduler) Start() {
	s.cron.Start()
	if entries := s.cron.Entries(); len(entries) > 0 {
		s.logger.Info("reload schedule started",
			slog.String("spec", s.spec),
			slog.Time("next_run", entries[0].Next))
	}
}

// Stop halts the schedule and returns a context done when a running reload finishes
func (s *ReloadScheduler) Stop() context.Context {
	return s.cron.Stop()
}
