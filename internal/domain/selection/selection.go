// Package selection picks the slice of a scenario's records a view works on.
// Every function is pure and operates on an already-loaded sequence.
package selection

import (
	"fmt"
	"time"

	"github.com/okian/ricecast/internal/domain/model"
)

// ByIndexRange returns the records whose Index lies in [lo, hi], in original order.
// It requires 1 <= lo <= hi <= len(records).
func ByIndexRange(records []model.PriceRecord, lo, hi int) ([]model.PriceRecord, error) {
	if lo < 1 || hi < lo || hi > len(records) {
		return nil, fmt.Errorf("%w: [%d, %d] outside [1, %d]", ErrInvalidRange, lo, hi, len(records))
	}
	out := make([]model.PriceRecord, 0, hi-lo+1)
	for _, r := range records {
		if r.Index >= lo && r.Index <= hi {
			out = append(out, r)
		}
	}
	return out, nil
}

// ByDate returns the record for the given calendar date.
// Dates are assumed unique; with duplicates the first match wins.
func ByDate(records []model.PriceRecord, date time.Time) (model.PriceRecord, error) {
	y, m, d := date.Date()
	for _, r := range records {
		ry, rm, rd := r.Date.Date()
		if ry == y && rm == m && rd == d {
			return r, nil
		}
	}
	return model.PriceRecord{}, fmt.Errorf("%w: %s", ErrNotFound, date.Format("2006-01-02"))
}

// Pairs projects the aligned actual and predicted columns.
func Pairs(records []model.PriceRecord) (actual, predicted []float64) {
	actual = make([]float64, len(records))
	predicted = make([]float64, len(records))
	for i, r := range records {
		actual[i] = r.Actual
		predicted[i] = r.Predicted
	}
	return actual, predicted
}

// Page returns the 1-based page of size rows and the total page count.
// Pages past the end clamp to the last page.
func Page(records []model.PriceRecord, page, size int) ([]model.PriceRecord, int, int) {
	if size < 1 {
		size = len(records)
	}
	if len(records) == 0 || size == 0 {
		return nil, 1, 1
	}
	pages := (len(records) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, len(records))
	return records[start:end], page, pages
}
