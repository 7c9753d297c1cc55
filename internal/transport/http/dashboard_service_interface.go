package http

import (
	"context"
	"io"

	"supplychain/internal/dashboard"
	"supplychain/internal/services"
	"supplychain/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, sel dashboard.Selection) (dashboard.View, error)
	Chart(ctx context.Context, kind string, sel dashboard.Selection) ([]byte, error)
	ExportCSV(ctx context.Context, sel dashboard.Selection, w io.Writer) (int, error)
	Reload(ctx context.Context, trigger string) (domain.DatasetInfo, error)
	Status() services.DatasetStatus
}
