// Package report prints a forecast evaluation to a terminal.
package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	service "github.com/okian/ricecast/internal/app"
	"github.com/okian/ricecast/internal/domain/evaluation"
	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/pkg/logger"
)

// Renderer computes dashboard views.
type Renderer interface {
	Render(ctx context.Context, st service.State) (service.View, error)
}

// State folds the report options into a dashboard state.
func (c Config) State() (service.State, error) {
	st := service.Update(service.DefaultState(), service.SelectScenario{ID: c.Scenario})
	st = service.Update(st, service.SetRange{From: c.From, To: c.To})
	if c.Date != "" {
		d, err := time.Parse("2006-01-02", c.Date)
		if err != nil {
			return st, fmt.Errorf("invalid -date %q: want YYYY-MM-DD", c.Date)
		}
		st = service.Update(st, service.PickDate{Date: d})
	}
	return st, nil
}

// Run renders the forecast tab, and the single-date tab when a date is set,
// and prints both to w.
func Run(ctx context.Context, w io.Writer, r Renderer, cfg Config) error {
	st, err := cfg.State()
	if err != nil {
		return err
	}

	logger.Get().Debug(ctx, "rendering report",
		logger.Int("scenario", st.ScenarioID),
		logger.Int("from", st.From),
		logger.Int("to", st.To),
	)

	v, err := r.Render(ctx, st)
	if err != nil {
		return fmt.Errorf("render forecast: %w", err)
	}

	printScenario(w, v)
	rows := v.Rows
	if cfg.All {
		rows = v.Selection
	}
	printTable(w, rows)
	if !cfg.All && v.Pages > 1 {
		fmt.Fprintf(w, "showing %d of %d rows, use -all for every row\n", len(rows), len(v.Selection))
	}
	printMetrics(w, v)

	if cfg.Date == "" {
		return nil
	}
	day, err := r.Render(ctx, service.Update(st, service.SelectTab{Tab: service.TabDay}))
	if err != nil {
		return fmt.Errorf("render date: %w", err)
	}
	printDay(w, day.Day)
	return nil
}

func printScenario(w io.Writer, v service.View) {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "\n=== %s ===\n", v.Scenario.Name())
	fmt.Fprintf(w, "units: %d  window size: %d  max epochs: %d\n",
		v.Scenario.Units, v.Scenario.WindowSize, v.Scenario.MaxEpochs)
	fmt.Fprintf(w, "rows %d-%d of %d: %s to %s\n\n", v.From, v.To, v.Max, v.StartDate, v.EndDate)
}

func printTable(w io.Writer, rows []model.PriceRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"No", "Tanggal", "Actual", "Predicted"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(r.Index),
			r.Date.Format("2006-01-02"),
			price(r.Actual),
			price(r.Predicted),
		})
	}
	table.Render()
}

func printMetrics(w io.Writer, v service.View) {
	m := v.Metrics
	if m == nil {
		return
	}
	color.New(color.FgYellow).Fprintln(w, "\nMetrics")
	fmt.Fprintf(w, "MSE:  %s\n", m.MSE)
	fmt.Fprintf(w, "RMSE: %s\n", m.RMSE)
	fmt.Fprintf(w, "MAPE: %s\n", m.MAPE)
	qualityColor(m.Quality).Fprintf(w, "Quality: %s\n", m.Quality)
	if m.ZeroActuals > 0 {
		fmt.Fprintf(w, "%d day(s) with a zero actual price left out of MAPE\n", m.ZeroActuals)
	}
	if m.Skipped > 0 {
		fmt.Fprintf(w, "%d day(s) with a missing price skipped\n", m.Skipped)
	}
}

func printDay(w io.Writer, d *service.DayView) {
	if d == nil {
		return
	}
	color.New(color.FgYellow).Fprintf(w, "\n%s\n", d.Date)
	fmt.Fprintf(w, "Predicted price: %s\n", pricePtr(d.Predicted))
	fmt.Fprintf(w, "Actual price:    %s\n", pricePtr(d.Actual))
}

func qualityColor(label string) *color.Color {
	switch label {
	case evaluation.QualityVeryGood:
		return color.New(color.FgGreen, color.Bold)
	case evaluation.QualityGood:
		return color.New(color.FgGreen)
	case evaluation.QualityFair:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return service.FormatFloat(v)
}

func pricePtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return service.FormatFloat(*v)
}
