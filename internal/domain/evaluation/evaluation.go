// Package evaluation computes regression error metrics over a forecast window.
//
// Pairs with a missing (NaN) or infinite value are skipped entirely. Pairs
// whose actual price is zero are excluded from the MAPE mean only and counted
// in Result.ZeroActuals; MSE and RMSE still use them.
package evaluation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Quality labels, from best to worst.
const (
	QualityVeryGood = "very good"
	QualityGood     = "good"
	QualityFair     = "fair"
	QualityPoor     = "poor"
)

// Lower bounds of the quality bands, as MAPE fractions.
const (
	goodFrom = 0.10
	fairFrom = 0.20
	poorFrom = 0.50
)

// Result holds the metrics for one selection.
type Result struct {
	MSE         float64 `json:"mse"`
	RMSE        float64 `json:"rmse"`
	MAPE        float64 `json:"mape"`
	Quality     string  `json:"quality"`
	Count       int     `json:"count"`        // pairs used for MSE and RMSE
	MAPECount   int     `json:"mape_count"`   // pairs used for MAPE
	ZeroActuals int     `json:"zero_actuals"` // pairs left out of MAPE
	Skipped     int     `json:"skipped"`      // pairs with a missing value
}

// Compute returns MSE, RMSE, MAPE and the quality label for aligned columns.
func Compute(actual, predicted []float64) (Result, error) {
	if len(actual) != len(predicted) {
		return Result{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return Result{}, ErrEmptySelection
	}

	squared := make([]float64, 0, len(actual))
	relative := make([]float64, 0, len(actual))
	var res Result
	for i, a := range actual {
		p := predicted[i]
		if !finite(a) || !finite(p) {
			res.Skipped++
			continue
		}
		diff := a - p
		squared = append(squared, diff*diff)
		if a == 0 {
			res.ZeroActuals++
			continue
		}
		relative = append(relative, math.Abs(diff/a))
	}

	if len(squared) == 0 {
		return Result{}, fmt.Errorf("%w: all %d pairs have missing values", ErrEmptySelection, res.Skipped)
	}
	if len(relative) == 0 {
		return Result{}, ErrUndefinedMAPE
	}

	res.Count = len(squared)
	res.MAPECount = len(relative)
	res.MSE = stat.Mean(squared, nil)
	res.RMSE = math.Sqrt(res.MSE)
	res.MAPE = stat.Mean(relative, nil)
	res.Quality = QualityLabel(res.MAPE)
	return res, nil
}

// QualityLabel maps a MAPE fraction to its band. Each band includes its
// lower bound and excludes its upper bound.
func QualityLabel(mape float64) string {
	switch {
	case mape < goodFrom:
		return QualityVeryGood
	case mape < fairFrom:
		return QualityGood
	case mape < poorFrom:
		return QualityFair
	default:
		return QualityPoor
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
