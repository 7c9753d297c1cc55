package http

import (
	"fmt"
	"net/http"
	"time"

	"supplychain/internal/dashboard"
	"supplychain/internal/middleware"
	api "supplychain/pkg/contracts/api/v1"
)

// DateLayout is the wire format of the from and to parameters
const DateLayout = "2006-01-02"

// parseSelection binds and validates the filter controls of r
func parseSelection(r *http.Request, v *middleware.Validator) (dashboard.Selection, error) {
	var q api.DashboardQuery
	if err := v.BindQuery(r, &q); err != nil {
		return dashboard.Selection{}, err
	}
	return selectionFrom(q)
}

// selectionFrom converts a validated query into a pipeline selection
func selectionFrom(q api.DashboardQuery) (dashboard.Selection, error) {
	sel := dashboard.Selection{
		Applied:   q.Applied,
		Suppliers: nonEmpty(q.Suppliers),
		Products:  nonEmpty(q.Products),
	}

	var err error
	if sel.From, err = parseDate(q.From); err != nil {
		return dashboard.Selection{}, fmt.Errorf("invalid from date: %w", err)
	}
	if sel.To, err = parseDate(q.To); err != nil {
		return dashboard.Selection{}, fmt.Errorf("invalid to date: %w", err)
	}
	return sel, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nonEmpty drops blank entries an empty form control may submit
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
