package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"supplychain/internal/charts"
	"supplychain/internal/dashboard"
	apierrors "supplychain/internal/errors"
	"supplychain/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlotlyURL is the chart library the page loads
const PlotlyURL = middleware.PlotlyCDN + "/plotly-2.35.2.min.js"

// PageHandler renders the dashboard page
type PageHandler struct {
	service       DashboardServiceInterface
	validator     *middleware.Validator
	errorHandler  *apierrors.ErrorHandler
	logger        *slog.Logger
	tmpl          *template.Template
	webSocketPath string
}

type chartLink struct {
	Kind   charts.Kind
	Title  string
	SVGURL string
}

type pageData struct {
	View              dashboard.View
	SelectedSuppliers map[string]bool
	SelectedProducts  map[string]bool
	From, To          string
	MinDate, MaxDate  string
	LoadedAt          string
	Charts            []chartLink
	ExportURL         string
	PlotlyURL         string
	LogURL            string
	WebSocketPath     string
}

// NewPageHandler parses the embedded page template
func NewPageHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, webSocketPath string, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		service:       service,
		validator:     validator,
		errorHandler:  errorHandler,
		logger:        logger.With(slog.String("handler", "page")),
		tmpl:          tmpl,
		webSocketPath: webSocketPath,
	}, nil
}

// ServeDashboard handles GET /
func (h *PageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
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

	// rendered into a buffer so a template failure never sends half a page
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, h.pageData(view, r.URL.Query())); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard page",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError("failed to render dashboard page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) pageData(view dashboard.View, query url.Values) pageData {
	encoded := query.Encode()
	withQuery := func(path string) string {
		if encoded == "" {
			return path
		}
		return path + "?" + encoded
	}

	data := pageData{
		View:              view,
		SelectedSuppliers: toSet(view.Filter.Suppliers),
		SelectedProducts:  toSet(view.Filter.Products),
		From:              formatDay(view.Filter.Dates.From),
		To:                formatDay(view.Filter.Dates.To),
		MinDate:           formatDay(view.Options.MinDate),
		MaxDate:           formatDay(view.Options.MaxDate),
		ExportURL:         withQuery("/api/orders.csv"),
		PlotlyURL:         PlotlyURL,
		LogURL:            "/api/logs",
		WebSocketPath:     h.webSocketPath,
	}
	if !view.LoadedAt.IsZero() {
		data.LoadedAt = view.LoadedAt.Format(time.RFC1123)
	}
	for _, k := range charts.Kinds {
		data.Charts = append(data.Charts, chartLink{
			Kind:   k,
			Title:  k.Title(),
			SVGURL: withQuery("/api/charts/" + string(k) + ".svg"),
		})
	}
	return data
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
