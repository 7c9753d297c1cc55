// Package api contains API contract definitions for the supply chain dashboard.
// Version v1 represents the current stable API version.
package api

// DateRangeRequest represents a date range in requests
type DateRangeRequest struct {
	From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// DashboardQuery carries the filter controls of the dashboard page.
// Applied is set once the user has submitted the sidebar form; until then the
// supplier and product sets default to every value present in the workbook.
type DashboardQuery struct {
	DateRangeRequest
	Suppliers []string `json:"supplier" query:"supplier" validate:"omitempty,dive,max=256"`
	Products  []string `json:"product" query:"product" validate:"omitempty,dive,max=256"`
	Applied   bool     `json:"applied" query:"applied"`
}

// ChartRequest selects one of the four dashboard charts
type ChartRequest struct {
	Kind string `json:"kind" param:"kind" validate:"required,oneof=lead-time performance shipping scatter"`
}
