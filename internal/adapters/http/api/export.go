package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/okian/ricecast/internal/adapters/export"
	service "github.com/okian/ricecast/internal/app"
)

// ExportHandler serves the selected window as a workbook.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /export/forecast.xlsx?scenario=&from=&to= requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	v, ok := renderTab(w, r, h.deps, service.TabForecast)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, v.Scenario, v.Selection, v.Result); err != nil {
		writeError(w, http.StatusInternalServerError, "export_error", err)
		return
	}

	filename := fmt.Sprintf("forecast_model_%d_%d-%d.xlsx", v.Scenario.ID, v.From, v.To)
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
