// Package services holds the dashboard's business layer between the HTTP
// handlers and the data pipeline.
//
// DashboardService owns the published dataset snapshot. Reloads come from
// three places (the reload endpoint, the workbook watcher and the cron
// ReloadScheduler) and are collapsed with singleflight so only one load
// runs at a time. Readers never block on a reload: the current snapshot is
// swapped atomically once a load completes.
//
// When a reload fails the previous dataset is kept but marked unavailable,
// and dashboard calls return an error wrapping ErrDatasetUnavailable until
// the workbook loads again.
//
// HealthService aggregates dataset, workbook and websocket state for the
// health endpoints.
package services
