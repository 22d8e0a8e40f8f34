package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/pkg/logger"
	"github.com/okian/ricecast/pkg/metrics"
)

const historyDataset = "history"

// CSVSource reads scenario and history files from disk on every call.
//
// Files are never cached: each interaction sees the data as it is on disk,
// and the source itself holds no mutable state after construction.
type CSVSource struct {
	scenarios   []model.Scenario
	byID        map[int]model.Scenario
	historyPath string

	dateCol      string
	actualCol    string
	predictedCol string
	historyCol   string
	dateLayout   string
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource creates a source over the given scenarios. Each scenario's File
// must be the resolved path of its CSV.
func NewCSVSource(historyPath string, scenarios []model.Scenario, opts ...Option) *CSVSource {
	s := &CSVSource{
		historyPath:  historyPath,
		byID:         make(map[int]model.Scenario, len(scenarios)),
		dateCol:      "Tanggal",
		actualCol:    "IR-64 I Actual Price",
		predictedCol: "IR-64 I Predictions Price",
		historyCol:   "IR-64 I",
		dateLayout:   "2006-01-02",
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, sc := range scenarios {
		if _, dup := s.byID[sc.ID]; dup {
			continue
		}
		s.byID[sc.ID] = sc
		s.scenarios = append(s.scenarios, sc)
	}
	sort.Slice(s.scenarios, func(i, j int) bool { return s.scenarios[i].ID < s.scenarios[j].ID })
	return s
}

// Scenarios returns a copy of the configured scenarios.
func (s *CSVSource) Scenarios(_ context.Context) []model.Scenario {
	out := make([]model.Scenario, len(s.scenarios))
	copy(out, s.scenarios)
	return out
}

// Scenario returns a scenario by id.
func (s *CSVSource) Scenario(_ context.Context, id int) (model.Scenario, error) {
	sc, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_scenario")
		return model.Scenario{}, fmt.Errorf("%w: %d", ErrUnknownScenario, id)
	}
	return sc, nil
}

// Records loads the forecast rows of a scenario.
func (s *CSVSource) Records(ctx context.Context, id int) ([]model.PriceRecord, error) {
	sc, err := s.Scenario(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	df, err := s.read(sc.File, map[string]series.Type{
		s.dateCol:      series.String,
		s.actualCol:    series.Float,
		s.predictedCol: series.Float,
	})
	if err != nil {
		s.loadFailed(ctx, sc.Dataset(), sc.File, err)
		return nil, err
	}

	dates, err := s.dates(df)
	if err != nil {
		s.loadFailed(ctx, sc.Dataset(), sc.File, err)
		return nil, err
	}
	actual, err := floatColumn(df, s.actualCol)
	if err != nil {
		s.loadFailed(ctx, sc.Dataset(), sc.File, err)
		return nil, err
	}
	predicted, err := floatColumn(df, s.predictedCol)
	if err != nil {
		s.loadFailed(ctx, sc.Dataset(), sc.File, err)
		return nil, err
	}

	out := make([]model.PriceRecord, len(dates))
	for i := range dates {
		out[i] = model.PriceRecord{
			Index:     i + 1,
			Date:      dates[i],
			Actual:    actual[i],
			Predicted: predicted[i],
		}
	}

	s.loaded(ctx, sc.Dataset(), len(out), start)
	return out, nil
}

// History loads the historical price series.
func (s *CSVSource) History(ctx context.Context) ([]model.HistoricalPrice, error) {
	start := time.Now()
	df, err := s.read(s.historyPath, map[string]series.Type{
		s.dateCol:    series.String,
		s.historyCol: series.Float,
	})
	if err != nil {
		s.loadFailed(ctx, historyDataset, s.historyPath, err)
		return nil, err
	}

	dates, err := s.dates(df)
	if err != nil {
		s.loadFailed(ctx, historyDataset, s.historyPath, err)
		return nil, err
	}
	prices, err := floatColumn(df, s.historyCol)
	if err != nil {
		s.loadFailed(ctx, historyDataset, s.historyPath, err)
		return nil, err
	}

	out := make([]model.HistoricalPrice, len(dates))
	for i := range dates {
		out[i] = model.HistoricalPrice{Index: i + 1, Date: dates[i], Price: prices[i]}
	}

	s.loaded(ctx, historyDataset, len(out), start)
	return out, nil
}

func (s *CSVSource) read(path string, types map[string]series.Type) (dataframe.DataFrame, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.WithTypes(types),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan"}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrMalformed, path, df.Err)
	}
	return df, nil
}

func (s *CSVSource) dates(df dataframe.DataFrame) ([]time.Time, error) {
	col := df.Col(s.dateCol)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: column %q: %v", ErrMalformed, s.dateCol, col.Err)
	}
	raw := col.Records()
	out := make([]time.Time, len(raw))
	for i, v := range raw {
		t, err := time.Parse(s.dateLayout, strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: date %q", ErrMalformed, i+1, v)
		}
		out[i] = t
	}
	return out, nil
}

// floatColumn returns a numeric column; blank cells come back as NaN.
func floatColumn(df dataframe.DataFrame, name string) ([]float64, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: column %q: %v", ErrMalformed, name, col.Err)
	}
	return col.Float(), nil
}

func (s *CSVSource) loaded(ctx context.Context, dataset string, rows int, start time.Time) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	metrics.RecordDatasetLoad(dataset, rows, ms)
	logger.Get().Debug(ctx, "dataset loaded",
		logger.String("dataset", dataset),
		logger.Int("rows", rows),
		logger.Float64("latency_ms", ms),
	)
}

func (s *CSVSource) loadFailed(ctx context.Context, dataset, path string, err error) {
	kind := "io"
	switch {
	case errors.Is(err, ErrMissingFile):
		kind = "missing_file"
	case errors.Is(err, ErrMalformed):
		kind = "malformed"
	}
	metrics.RecordDatasetLoadError(dataset, kind)
	metrics.RecordErrorByComponent("repository", kind)
	logger.Get().Error(ctx, "dataset load failed",
		logger.String("dataset", dataset),
		logger.String("path", path),
		logger.Error(err),
	)
}
