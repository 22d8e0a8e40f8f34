// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"math"
	"time"
)

// PriceRecord is one forecast day: the observed price next to the model's prediction.
type PriceRecord struct {
	Index     int       `json:"no"`        // 1-based position within the scenario
	Date      time.Time `json:"date"`      // calendar date, UTC midnight
	Actual    float64   `json:"actual"`    // observed price; NaN when missing
	Predicted float64   `json:"predicted"` // model output; NaN when missing
}

// Complete reports whether both prices are present and finite.
func (r PriceRecord) Complete() bool {
	return isFinite(r.Actual) && isFinite(r.Predicted)
}

// HistoricalPrice is one observation of the 2016-2021 series.
type HistoricalPrice struct {
	Index int       `json:"no"`
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// MarshalJSON encodes missing prices as null.
func (r PriceRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index     int      `json:"no"`
		Date      string   `json:"date"`
		Actual    *float64 `json:"actual"`
		Predicted *float64 `json:"predicted"`
	}{r.Index, r.Date.Format(dateLayout), nullable(r.Actual), nullable(r.Predicted)})
}

// MarshalJSON encodes a missing price as null.
func (h HistoricalPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index int      `json:"no"`
		Date  string   `json:"date"`
		Price *float64 `json:"price"`
	}{h.Index, h.Date.Format(dateLayout), nullable(h.Price)})
}

const dateLayout = "2006-01-02"

func nullable(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
