package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"

	service "github.com/okian/ricecast/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"price": formatPrice,
}).ParseFS(templateFS, "templates/dashboard.html"))

// DashboardHandler renders the HTML dashboard.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

type tabLink struct {
	Label  string
	URL    string
	Active bool
}

type dashboardPage struct {
	View   service.View
	Query  dashboardQuery
	Tabs   []tabLink
	Error  string
	Status int

	PrevURL   string
	NextURL   string
	ChartURL  string
	ExportURL string
}

// HandleDashboard handles GET /dashboard requests. Errors are rendered in the
// page with the mapped status code so the controls stay usable.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	page := dashboardPage{Status: http.StatusOK}
	st, err := parseDashboardQuery(r, &page.Query)
	if err != nil {
		page.Status = http.StatusBadRequest
		page.Error = err.Error()
		page.Query = dashboardQuery{Tab: string(service.TabForecast), Scenario: 1, Page: 1}
		st, _ = page.Query.State()
	}

	v, err := h.deps.Render(r.Context(), st)
	if v.Scenarios == nil {
		v.Scenarios = h.deps.Scenarios(r.Context())
	}
	v.State = st
	page.View = v
	if err != nil && page.Error == "" {
		page.Status, _ = classify(err)
		page.Error = err.Error()
	}
	page.Tabs = tabLinks(page.Query)
	page.links()

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		writeError(w, http.StatusInternalServerError, "template_error", fmt.Errorf("%w: %v", ErrTemplateError, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(page.Status)
	_, _ = buf.WriteTo(w)
}

func parseDashboardQuery(r *http.Request, q *dashboardQuery) (service.State, error) {
	if err := readQuery(r.Context(), r.URL.Query(), q); err != nil {
		return service.State{}, err
	}
	return q.State()
}

func (p *dashboardPage) links() {
	q := p.Query
	q.Tab = string(service.TabForecast)
	if p.View.Page > 1 {
		prev := q
		prev.Page = p.View.Page - 1
		p.PrevURL = "/dashboard?" + prev.values().Encode()
	}
	if p.View.Page < p.View.Pages {
		next := q
		next.Page = p.View.Page + 1
		p.NextURL = "/dashboard?" + next.values().Encode()
	}

	sel := url.Values{}
	sel.Set("scenario", strconv.Itoa(q.Scenario))
	if p.View.From > 0 {
		sel.Set("from", strconv.Itoa(p.View.From))
		sel.Set("to", strconv.Itoa(p.View.To))
	}
	p.ChartURL = "/chart/forecast.png?" + sel.Encode()
	p.ExportURL = "/export/forecast.xlsx?" + sel.Encode()
	if service.Tab(p.Query.Tab) == service.TabHistory {
		p.ChartURL = "/chart/history.png"
	}
}

func tabLinks(q dashboardQuery) []tabLink {
	tabs := []struct {
		tab   service.Tab
		label string
	}{
		{service.TabForecast, "Forecast"},
		{service.TabDay, "Single date"},
		{service.TabHistory, "History 2016-2021"},
	}
	out := make([]tabLink, len(tabs))
	for i, t := range tabs {
		tq := q
		tq.Tab = string(t.tab)
		out[i] = tabLink{Label: t.label, URL: "/dashboard?" + tq.values().Encode(), Active: q.Tab == string(t.tab)}
	}
	return out
}

func (q dashboardQuery) values() url.Values {
	v := url.Values{}
	v.Set("tab", q.Tab)
	v.Set("scenario", strconv.Itoa(q.Scenario))
	if q.From > 0 {
		v.Set("from", strconv.Itoa(q.From))
	}
	if q.To > 0 {
		v.Set("to", strconv.Itoa(q.To))
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// formatPrice renders a price for the table; missing values show as a dash.
func formatPrice(v any) string {
	switch p := v.(type) {
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return "-"
		}
		return service.FormatFloat(p)
	case *float64:
		if p == nil {
			return "-"
		}
		return service.FormatFloat(*p)
	default:
		return fmt.Sprint(v)
	}
}
