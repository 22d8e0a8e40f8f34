package repository

import (
	"github.com/okian/ricecast/internal/config"
	"github.com/okian/ricecast/internal/domain/model"
)

// FromConfig builds a CSVSource over the configured data directory.
func FromConfig(cfg *config.Config) *CSVSource {
	scenarios := make([]model.Scenario, len(cfg.Scenarios))
	for i, s := range cfg.Scenarios {
		scenarios[i] = model.Scenario{
			ID:         s.ID,
			Units:      s.Units,
			WindowSize: s.WindowSize,
			MaxEpochs:  s.MaxEpochs,
			File:       cfg.ScenarioPath(s),
		}
	}
	return NewCSVSource(cfg.HistoryPath(), scenarios,
		WithColumns(cfg.DateColumn, cfg.ActualColumn, cfg.PredictedColumn),
		WithHistoryColumn(cfg.HistoryPriceColumn),
		WithDateLayout(config.DateLayout),
	)
}
