// Package repository loads forecast scenarios and the historical price series.
package repository

import (
	"context"

	"github.com/okian/ricecast/internal/domain/model"
)

// Source provides read access to the forecast data.
type Source interface {
	// Scenarios returns every configured scenario ordered by id.
	Scenarios(ctx context.Context) []model.Scenario

	// Scenario returns a scenario by id.
	// Returns ErrUnknownScenario if the id is not configured.
	Scenario(ctx context.Context, id int) (model.Scenario, error)

	// Records reads the scenario's forecast rows in file order, indexed from 1.
	Records(ctx context.Context, id int) ([]model.PriceRecord, error)

	// History reads the 2016-2021 price series.
	History(ctx context.Context) ([]model.HistoricalPrice, error)
}
