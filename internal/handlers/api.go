package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"autosales-dashboard/internal/charts"
	"autosales-dashboard/internal/errors"
	"autosales-dashboard/internal/export"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type yearSelectorState struct {
	Report   models.ReportType `json:"report"`
	Disabled bool              `json:"disabled"`
}

func (h *APIHandlers) HandleYearSelector(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	report, err := models.ParseReportType(r.URL.Query().Get("report"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "invalid report type"), requestID)
		return
	}

	errors.WriteSuccess(w, yearSelectorState{
		Report:   report,
		Disabled: h.dashboard.YearSelectorDisabled(report),
	})
}

func (h *APIHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := parseSelection(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	specs := h.dashboard.Charts(sel)
	if specs == nil {
		specs = []models.ChartSpec{}
	}

	headers := map[string]string{
		"Cache-Control": cacheControl,
	}

	errors.WriteSuccessWithHeaders(w, specs, headers)
}

func (h *APIHandlers) HandleChartImage(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := parseSelection(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	format, err := charts.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "invalid image format"), requestID)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "chart index must be a number"), requestID)
		return
	}

	specs := h.dashboard.Charts(sel)
	if index < 0 || index >= len(specs) {
		errors.WriteError(w, h.logger, errors.NotFound(fmt.Sprintf("no chart %d for this selection", index)), requestID)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, specs[index], format); err != nil {
		if stderrors.Is(err, charts.ErrNoData) {
			errors.WriteError(w, h.logger, errors.NotFound("chart has no data for this selection"), requestID)
			return
		}
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write chart image", "error", err, "request_id", requestID)
	}
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := parseSelection(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, sel, h.dashboard.Charts(sel), time.Now()); err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to build workbook"), requestID)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(sel)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write workbook", "error", err, "request_id", requestID)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.dashboard.Stats()

	errors.WriteSuccess(w, stats)
}
