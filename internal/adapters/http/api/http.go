// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/ricecast/internal/adapters/repository"
	service "github.com/okian/ricecast/internal/app"
	"github.com/okian/ricecast/internal/domain/evaluation"
	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/internal/domain/selection"
	"gonum.org/v1/plot/vg"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Render computes the dashboard view for a state.
	Render(ctx context.Context, st service.State) (service.View, error)

	// Scenarios lists the available models.
	Scenarios(ctx context.Context) []model.Scenario
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	forecastHandler  *ForecastHandler
	dashboardHandler *DashboardHandler
	chartHandler     *ChartHandler
	exportHandler    *ExportHandler
}

// ServerOption customises the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	chartWidth  vg.Length
	chartHeight vg.Length
}

// WithChartSize sets the rendered chart size in inches.
func WithChartSize(widthIn, heightIn float64) ServerOption {
	return func(c *serverConfig) {
		if widthIn > 0 && heightIn > 0 {
			c.chartWidth = vg.Length(widthIn) * vg.Inch
			c.chartHeight = vg.Length(heightIn) * vg.Inch
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{chartWidth: 8 * vg.Inch, chartHeight: 4.5 * vg.Inch}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		forecastHandler:  NewForecastHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
		chartHandler:     NewChartHandler(deps, cfg.chartWidth, cfg.chartHeight),
		exportHandler:    NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/scenarios", MetricsMiddleware(s.forecastHandler.HandleScenarios, "scenarios"))
	mux.HandleFunc("/api/forecast", MetricsMiddleware(s.forecastHandler.HandleForecast, "forecast"))
	mux.HandleFunc("/api/forecast/day", MetricsMiddleware(s.forecastHandler.HandleDay, "forecast_day"))
	mux.HandleFunc("/api/history", MetricsMiddleware(s.forecastHandler.HandleHistory, "history"))
	mux.HandleFunc("/chart/", MetricsMiddleware(s.chartHandler.HandleChart, "chart"))
	mux.HandleFunc("/export/forecast.xlsx", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details []ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates a render error into its HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// classify maps domain errors to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, selection.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, evaluation.ErrEmptySelection):
		return http.StatusBadRequest, "empty_selection"
	case errors.Is(err, service.ErrDateOutOfBounds):
		return http.StatusBadRequest, "date_out_of_bounds"
	case errors.Is(err, service.ErrUnknownTab), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, selection.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrUnknownScenario):
		return http.StatusNotFound, "unknown_scenario"
	case errors.Is(err, ErrUnknownChart):
		return http.StatusNotFound, "unknown_chart"
	case errors.Is(err, evaluation.ErrUndefinedMAPE):
		return http.StatusUnprocessableEntity, "undefined_mape"
	case errors.Is(err, repository.ErrMissingFile):
		return http.StatusInternalServerError, "missing_file"
	case errors.Is(err, repository.ErrMalformed):
		return http.StatusInternalServerError, "malformed_data"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
