package api

import (
	"net/http"

	service "github.com/okian/ricecast/internal/app"
	"github.com/okian/ricecast/internal/domain/model"
)

// ForecastHandler serves the JSON read API.
type ForecastHandler struct {
	deps Dependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps Dependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

type scenarioResponse struct {
	model.Scenario
	Name string `json:"name"`
}

// HandleScenarios handles GET /api/scenarios requests.
func (h *ForecastHandler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	scenarios := h.deps.Scenarios(r.Context())
	out := make([]scenarioResponse, len(scenarios))
	for i, s := range scenarios {
		out[i] = scenarioResponse{Scenario: s, Name: s.Name()}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleForecast handles GET /api/forecast?scenario=&from=&to=&page= requests.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	v, ok := renderTab(w, r, h.deps, service.TabForecast)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleDay handles GET /api/forecast/day?scenario=&date= requests.
func (h *ForecastHandler) HandleDay(w http.ResponseWriter, r *http.Request) {
	v, ok := renderTab(w, r, h.deps, service.TabDay)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Day)
}

// HandleHistory handles GET /api/history requests.
func (h *ForecastHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	v, ok := renderTab(w, r, h.deps, service.TabHistory)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.History)
}

// renderTab parses the query, forces the tab and renders. On failure it has
// already written the response.
func renderTab(w http.ResponseWriter, r *http.Request, deps Dependencies, tab service.Tab) (service.View, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return service.View{}, false
	}
	var q dashboardQuery
	if err := readQuery(r.Context(), r.URL.Query(), &q); err != nil {
		writeJSON(w, http.StatusBadRequest, badQuery(err))
		return service.View{}, false
	}
	q.Tab = string(tab)
	st, err := q.State()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, badQuery(err))
		return service.View{}, false
	}

	v, err := deps.Render(r.Context(), st)
	if err != nil {
		writeDomainError(w, err)
		return service.View{}, false
	}
	return v, true
}
