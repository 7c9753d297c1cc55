// Package shared holds helpers used across the dashboard packages.
//
// The testutil subpackage provides a capturing slog handler for asserting
// on log output and helpers that write orders workbooks into temporary
// directories with excelize.
package shared
