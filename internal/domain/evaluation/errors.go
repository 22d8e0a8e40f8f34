package evaluation

import "errors"

// Sentinel kinds for evaluation errors.
var (
	ErrEmptySelection = errors.New("empty selection")
	ErrLengthMismatch = errors.New("actual and predicted lengths differ")
	ErrUndefinedMAPE  = errors.New("mape undefined: every actual price is zero")
)
