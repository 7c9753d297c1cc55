package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "supplychain/internal/errors"
	mw "supplychain/internal/middleware"
	"supplychain/internal/services"
	api "supplychain/pkg/contracts/api/v1"
)

// DataHandler serves the dashboard data in JSON, CSV and SVG form and
// exposes the dataset reload
type DataHandler struct {
	service      DashboardServiceInterface
	validator    *mw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DashboardServiceInterface, validator *mw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes, mounted under /api
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.GetDashboard)
	r.Get("/orders.csv", h.ExportOrders)
	r.Get("/charts/{kind}.svg", h.GetChart)

	r.Route("/dataset", func(r chi.Router) {
		r.Get("/", h.GetDatasetStatus)
		r.Post("/reload", h.ReloadDataset)
	})

	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DataHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Dashboard(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, view)
}

// ExportOrders handles GET /api/orders.csv
func (h *DataHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// buffered so a failure can still become a problem response
	var buf bytes.Buffer
	n, err := h.service.ExportCSV(r.Context(), sel, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "orders exported",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("rows", n))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// GetChart handles GET /api/charts/{kind}.svg
func (h *DataHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	req := api.ChartRequest{Kind: chi.URLParam(r, "kind")}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Wrap(apierrors.ErrChartNotFound, err))
		return
	}

	sel, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	svg, err := h.service.Chart(r.Context(), req.Kind, sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

// GetDatasetStatus handles GET /api/dataset
func (h *DataHandler) GetDatasetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status())
}

// ReloadDataset handles POST /api/dataset/reload
func (h *DataHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Reload(r.Context(), services.TriggerAPI)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "reloaded",
		"dataset": info,
	})
}
