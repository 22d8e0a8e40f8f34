// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env on top.
// - Validation errors wrap ErrInvalidConfig; I/O and parse errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// DateLayout is the calendar-date format used in config and data files.
const DateLayout = "2006-01-02"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the scenario and history CSV files.
	DataDir string `koanf:"data_dir"`

	// ScenarioFilePattern is a fmt pattern taking the scenario id.
	ScenarioFilePattern string `koanf:"scenario_file_pattern"`

	// HistoryFile is the 2016-2021 historical price series.
	HistoryFile string `koanf:"history_file"`

	// Column names in the CSV files.
	DateColumn         string `koanf:"date_column"`
	ActualColumn       string `koanf:"actual_column"`
	PredictedColumn    string `koanf:"predicted_column"`
	HistoryPriceColumn string `koanf:"history_price_column"`

	// PageSize is the number of table rows per page.
	PageSize int `koanf:"page_size"`

	// DateMin and DateMax bound the single-date picker (YYYY-MM-DD).
	DateMin string `koanf:"date_min"`
	DateMax string `koanf:"date_max"`

	// Chart size in inches.
	ChartWidthIn  float64 `koanf:"chart_width_in"`
	ChartHeightIn float64 `koanf:"chart_height_in"`

	// Metric naming: namespace and subsystem prefix every collector name,
	// labels are attached to every series, buckets are latency bounds in ms.
	MetricsNamespace string            `koanf:"metrics_namespace"`
	MetricsSubsystem string            `koanf:"metrics_subsystem"`
	MetricsLabels    map[string]string `koanf:"metrics_labels"`
	MetricsBucketsMS []float64         `koanf:"metrics_buckets_ms"`

	// Scenarios lists the model variants and their training hyperparameters.
	Scenarios []Scenario `koanf:"scenarios"`
}

// Scenario describes one trained model variant.
type Scenario struct {
	ID         int    `koanf:"id"`
	Units      int    `koanf:"units"`
	WindowSize int    `koanf:"window_size"`
	MaxEpochs  int    `koanf:"max_epochs"`
	File       string `koanf:"file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DataDir:             "data",
		ScenarioFilePattern: "prediksi_beras_2022_skenario_%d.csv",
		HistoryFile:         "harga_beras_2016_2021.csv",
		DateColumn:          "Tanggal",
		ActualColumn:        "IR-64 I Actual Price",
		PredictedColumn:     "IR-64 I Predictions Price",
		HistoryPriceColumn:  "IR-64 I",
		PageSize:            10,
		DateMin:             "2022-01-01",
		DateMax:             "2022-06-30",
		ChartWidthIn:        8,
		ChartHeightIn:       4.5,
		MetricsNamespace:    "ricecast",
		MetricsSubsystem:    "dashboard",
		Scenarios:           DefaultScenarios(),
	}
}

// DefaultScenarios returns the eight GRU variants the forecasts were produced with.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{ID: 1, Units: 32, WindowSize: 7, MaxEpochs: 100},
		{ID: 2, Units: 32, WindowSize: 30, MaxEpochs: 100},
		{ID: 3, Units: 64, WindowSize: 7, MaxEpochs: 100},
		{ID: 4, Units: 64, WindowSize: 30, MaxEpochs: 100},
		{ID: 5, Units: 32, WindowSize: 7, MaxEpochs: 63},
		{ID: 6, Units: 32, WindowSize: 30, MaxEpochs: 62},
		{ID: 7, Units: 64, WindowSize: 7, MaxEpochs: 100},
		{ID: 8, Units: 64, WindowSize: 30, MaxEpochs: 100},
	}
}

// ScenarioPath resolves the CSV path for a scenario, preferring an explicit File.
func (c *Config) ScenarioPath(s Scenario) string {
	name := s.File
	if name == "" {
		name = fmt.Sprintf(c.ScenarioFilePattern, s.ID)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// HistoryPath resolves the historical series CSV path.
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	return filepath.Join(c.DataDir, c.HistoryFile)
}

// DateRange parses DateMin and DateMax.
func (c *Config) DateRange() (time.Time, time.Time, error) {
	lo, err := time.Parse(DateLayout, c.DateMin)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date_min: %v", ErrInvalidConfig, err)
	}
	hi, err := time.Parse(DateLayout, c.DateMax)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date_max: %v", ErrInvalidConfig, err)
	}
	if hi.Before(lo) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date_max before date_min", ErrInvalidConfig)
	}
	return lo, hi, nil
}

// Validate checks invariants that defaults and overrides must satisfy.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.PageSize < 1:
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	case c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0:
		return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
	case len(c.Scenarios) == 0:
		return fmt.Errorf("%w: at least one scenario is required", ErrInvalidConfig)
	}
	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	for i := 1; i < len(c.MetricsBucketsMS); i++ {
		if c.MetricsBucketsMS[i] <= c.MetricsBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics_buckets_ms must be strictly increasing", ErrInvalidConfig)
		}
	}
	seen := make(map[int]bool, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s.ID < 1 {
			return fmt.Errorf("%w: scenario id must be positive, got %d", ErrInvalidConfig, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate scenario id %d", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
