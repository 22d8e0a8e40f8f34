package service

import (
	"math"
	"strconv"

	"github.com/okian/ricecast/internal/domain/evaluation"
	"github.com/okian/ricecast/internal/domain/model"
)

// DisplayDateLayout is how window bounds are shown to the user.
const DisplayDateLayout = "02 January 2006"

// View is the rendered dashboard for one State.
type View struct {
	State     State            `json:"state"`
	Scenarios []model.Scenario `json:"scenarios"`
	Scenario  model.Scenario   `json:"scenario"`

	// Window bounds of the scenario, always 1 and len(records).
	Min int `json:"min"`
	Max int `json:"max"`

	// Resolved selection.
	From      int    `json:"from"`
	To        int    `json:"to"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	Rows  []model.PriceRecord `json:"rows,omitempty"`
	Page  int                 `json:"page"`
	Pages int                 `json:"pages"`

	Metrics *MetricsView `json:"metrics,omitempty"`
	Day     *DayView     `json:"day,omitempty"`

	History []model.HistoricalPrice `json:"history,omitempty"`

	// Picker bounds, YYYY-MM-DD.
	DateMin string `json:"date_min"`
	DateMax string `json:"date_max"`

	// Selection is the full evaluated window, used by charts and exports.
	Selection []model.PriceRecord `json:"-"`
	Result    evaluation.Result   `json:"-"`
}

// MetricsView holds the formatted metric strings.
type MetricsView struct {
	MSE         string `json:"mse"`
	RMSE        string `json:"rmse"`
	MAPE        string `json:"mape"`
	Quality     string `json:"quality"`
	ZeroActuals int    `json:"zero_actuals,omitempty"`
	Skipped     int    `json:"skipped,omitempty"`
}

// DayView holds the single-date lookup. A nil price is missing in the data.
type DayView struct {
	Date      string   `json:"date"`
	Predicted *float64 `json:"predicted"`
	Actual    *float64 `json:"actual"`
}

func newMetricsView(r evaluation.Result) *MetricsView {
	return &MetricsView{
		MSE:         FormatFloat(r.MSE),
		RMSE:        FormatFloat(r.RMSE),
		MAPE:        FormatFloat(r.MAPE),
		Quality:     r.Quality,
		ZeroActuals: r.ZeroActuals,
		Skipped:     r.Skipped,
	}
}

func newDayView(r model.PriceRecord) *DayView {
	return &DayView{
		Date:      r.Date.Format("2006-01-02"),
		Predicted: present(r.Predicted),
		Actual:    present(r.Actual),
	}
}

func present(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FormatFloat renders v in its shortest exact decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
