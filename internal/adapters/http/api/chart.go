package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/okian/ricecast/internal/adapters/chart"
	service "github.com/okian/ricecast/internal/app"
)

// ChartHandler serves rendered charts.
type ChartHandler struct {
	deps   Dependencies
	width  vg.Length
	height vg.Length
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies, width, height vg.Length) *ChartHandler {
	return &ChartHandler{deps: deps, width: width, height: height}
}

// HandleChart handles GET /chart/{forecast,history}.{png,svg} requests.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	name, format, ok := strings.Cut(path.Base(r.URL.Path), ".")
	contentType, err := chart.ContentType(format)
	if !ok || err != nil {
		writeError(w, http.StatusNotFound, "unknown_chart", fmt.Errorf("%w: %s", ErrUnknownChart, r.URL.Path))
		return
	}

	var tab service.Tab
	switch name {
	case "forecast":
		tab = service.TabForecast
	case "history":
		tab = service.TabHistory
	default:
		writeError(w, http.StatusNotFound, "unknown_chart", fmt.Errorf("%w: %s", ErrUnknownChart, name))
		return
	}

	v, ok := renderTab(w, r, h.deps, tab)
	if !ok {
		return
	}

	opts := chart.Options{Format: format, Width: h.width, Height: h.height}
	var buf bytes.Buffer
	if tab == service.TabHistory {
		opts.Title = "IR-64 I price 2016-2021"
		err = chart.RenderHistory(r.Context(), &buf, v.History, opts)
	} else {
		opts.Title = fmt.Sprintf("%s: %s to %s", v.Scenario.Name(), v.StartDate, v.EndDate)
		err = chart.RenderForecast(r.Context(), &buf, v.Selection, opts)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chart_error", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
