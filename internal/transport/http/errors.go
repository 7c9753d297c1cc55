package http

import (
	"log/slog"

	apierrors "supplychain/internal/errors"
	"supplychain/internal/services"
)

// NewErrorHandler returns an error handler that knows the service sentinels
func NewErrorHandler(logger *slog.Logger, includeStack bool) *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(logger, includeStack).
		Map(services.ErrDatasetNotLoaded, apierrors.ErrDatasetUnavailable).
		Map(services.ErrDatasetUnavailable, apierrors.ErrDatasetUnavailable).
		Map(services.ErrUnknownChart, apierrors.ErrChartNotFound)
}
