// Package chart draws the forecast and historical price series with gonum/plot.
package chart

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/pkg/metrics"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

var (
	actualColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	predictedColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	historyColor   = color.RGBA{R: 34, G: 139, B: 34, A: 255}
)

// Options controls the rendered image.
type Options struct {
	Format string
	Title  string
	Width  vg.Length
	Height vg.Length
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatPNG
	}
	o.Format = strings.ToLower(o.Format)
	if o.Width <= 0 {
		o.Width = 8 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 4.5 * vg.Inch
	}
	return o
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatPNG:
		return "image/png", nil
	case FormatSVG:
		return "image/svg+xml", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// RenderForecast draws actual against predicted prices over the selected days.
// Missing values are left out of their line.
func RenderForecast(ctx context.Context, w io.Writer, records []model.PriceRecord, opts Options) error {
	opts = opts.withDefaults()
	if _, err := ContentType(opts.Format); err != nil {
		return err
	}

	actual := make(plotter.XYs, 0, len(records))
	predicted := make(plotter.XYs, 0, len(records))
	for _, r := range records {
		x := float64(r.Date.Unix())
		if finite(r.Actual) {
			actual = append(actual, plotter.XY{X: x, Y: r.Actual})
		}
		if finite(r.Predicted) {
			predicted = append(predicted, plotter.XY{X: x, Y: r.Predicted})
		}
	}
	if len(actual) == 0 && len(predicted) == 0 {
		return ErrNoData
	}

	p := newPlot(opts.Title, "Price (Rp/kg)")
	if err := addLine(p, "Actual", actual, actualColor, false); err != nil {
		return err
	}
	if err := addLine(p, "Predicted", predicted, predictedColor, true); err != nil {
		return err
	}
	return write(ctx, w, p, "forecast", opts)
}

// RenderHistory draws the historical price series.
func RenderHistory(ctx context.Context, w io.Writer, prices []model.HistoricalPrice, opts Options) error {
	opts = opts.withDefaults()
	if _, err := ContentType(opts.Format); err != nil {
		return err
	}

	xys := make(plotter.XYs, 0, len(prices))
	for _, hp := range prices {
		if finite(hp.Price) {
			xys = append(xys, plotter.XY{X: float64(hp.Date.Unix()), Y: hp.Price})
		}
	}
	if len(xys) == 0 {
		return ErrNoData
	}

	p := newPlot(opts.Title, "Price (Rp/kg)")
	if err := addLine(p, "IR-64 I", xys, historyColor, false); err != nil {
		return err
	}
	return write(ctx, w, p, "history", opts)
}

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, name string, xys plotter.XYs, c color.Color, dashed bool) error {
	if len(xys) == 0 {
		return nil
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("build %s line: %w", name, err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func write(_ context.Context, w io.Writer, p *plot.Plot, name string, opts Options) error {
	start := time.Now()
	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		metrics.RecordErrorByComponent("chart", "encode")
		return fmt.Errorf("encode %s chart: %w", name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		metrics.RecordErrorByComponent("chart", "write")
		return fmt.Errorf("write %s chart: %w", name, err)
	}
	metrics.RecordChartRender(name, opts.Format, float64(time.Since(start).Nanoseconds())/1e6)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
