// Package export writes the selected forecast window as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/okian/ricecast/internal/domain/evaluation"
	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/pkg/metrics"
)

// Sheet names.
const (
	ForecastSheet = "Forecast"
	MetricsSheet  = "Metrics"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var forecastHeader = []string{"No", "Tanggal", "Actual", "Predicted"}

// WriteWorkbook writes the forecast rows and their metrics to w.
// Missing prices are left as empty cells.
func WriteWorkbook(w io.Writer, sc model.Scenario, records []model.PriceRecord, res evaluation.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", ForecastSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range forecastHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ForecastSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetColWidth(ForecastSheet, "B", "D", 16); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	for i, r := range records {
		row := i + 2
		cells := []any{r.Index, r.Date.Format("2006-01-02"), price(r.Actual), price(r.Predicted)}
		for col, v := range cells {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(ForecastSheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if _, err := f.NewSheet(MetricsSheet); err != nil {
		return fmt.Errorf("add metrics sheet: %w", err)
	}
	rows := [][]any{
		{"Model", sc.Name()},
		{"Units", sc.Units},
		{"Window Size", sc.WindowSize},
		{"Max Epochs", sc.MaxEpochs},
		{"Days", res.Count},
		{"MSE", res.MSE},
		{"RMSE", res.RMSE},
		{"MAPE", res.MAPE},
		{"Quality", res.Quality},
	}
	for i, kv := range rows {
		if err := f.SetSheetRow(MetricsSheet, fmt.Sprintf("A%d", i+1), &kv); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if err := f.SetColWidth(MetricsSheet, "A", "B", 16); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	if err := f.Write(w); err != nil {
		metrics.RecordErrorByComponent("export", "write")
		return fmt.Errorf("write workbook: %w", err)
	}
	metrics.RecordExport()
	return nil
}

func price(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
