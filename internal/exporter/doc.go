// Package exporter writes filtered orders as CSV.
//
// StreamWriter is the core: it writes an optional UTF-8 BOM (so Excel picks
// the right encoding), a header row, then one record at a time to any
// io.Writer. WriteOrders uses it to dump domain.Order rows under their
// canonical column names.
//
// Example usage:
//
//	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
//	err := exporter.WriteOrders(w, view.Orders)
package exporter
