package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"autosales-dashboard/internal/charts"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/services"
	"autosales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// dashboardSignals mirrors the data-signals declared on the page body.
// Year stays raw because a bound <select> sends it as a string.
type dashboardSignals struct {
	Report string          `json:"report"`
	Year   json.RawMessage `json:"year"`
}

// readSelection decodes the browser signals. Anything the dropdowns could
// not have produced is treated as "no selection" rather than an error.
func (h *SSEHandlers) readSelection(r *http.Request) models.Selection {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read signals", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return models.Selection{}
	}

	var sel models.Selection
	if report, err := models.ParseReportType(signals.Report); err == nil {
		sel.Report = report
	}
	if len(signals.Year) > 0 {
		var year models.YearSelection
		if err := json.Unmarshal(signals.Year, &year); err == nil {
			sel.Year = year
		}
	}
	return sel
}

func (h *SSEHandlers) HandleYearSelector(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)

	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"yearDisabled": h.dashboard.YearSelectorDisabled(sel.Report),
	})
	if err != nil {
		h.logger.Error("marshal year selector state", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch year selector signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)

	sse := datastar.NewSSE(w, r)

	specs := h.dashboard.Charts(sel)
	html, err := renderChartGrid(r, h.chartItems(specs))
	if err != nil {
		h.logger.Error("render chart grid", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch chart grid", "error", err)
		return
	}

	if specs == nil {
		specs = []models.ChartSpec{}
	}
	jsonData, err := json.Marshal(map[string]any{
		"charts": specs,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch chart signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// chartItems renders each spec to inline SVG. A chart that cannot be drawn
// becomes an empty cell so the other three still show.
func (h *SSEHandlers) chartItems(specs []models.ChartSpec) []templates.ChartItem {
	items := make([]templates.ChartItem, len(specs))
	for i, spec := range specs {
		items[i] = templates.ChartItem{Index: i, Title: spec.Title, Kind: spec.Kind}

		svg, err := charts.SVG(spec)
		switch {
		case err == nil:
			items[i].SVG = svg
		case stderrors.Is(err, charts.ErrNoData):
		default:
			h.logger.Warn("render chart", "index", i, "title", spec.Title, "error", err)
		}
	}
	return items
}

func renderChartGrid(r *http.Request, items []templates.ChartItem) (string, error) {
	var buf strings.Builder
	if err := templates.ChartGrid(items).Render(r.Context(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
