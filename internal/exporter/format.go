package exporter

import (
	"strconv"
	"time"
)

// formatFloat formats a float64 value without trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatDate formats a calendar date as YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
