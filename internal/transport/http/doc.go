// Package http holds the HTTP handlers of the supply chain dashboard. The
// handlers stay thin: they parse and validate the filter query, call the
// dashboard service and render the result.
//
//	GET  /                      dashboard page (PageHandler)
//	GET  /api/dashboard         view model as JSON
//	GET  /api/orders.csv        filtered orders as CSV
//	GET  /api/charts/{kind}.svg one chart rendered server side
//	GET  /api/dataset           dataset status
//	POST /api/dataset/reload    re-read the workbook
//	POST /api/logs              browser log entries
//	GET  /api/health[/ready|/live], /api/version, /metrics
//
// Every dashboard route accepts the same query parameters: supplier and
// product (repeatable), from and to (YYYY-MM-DD) and applied. Errors are
// RFC 7807 problems written by internal/errors.ErrorHandler.
package http
