package chart

import "errors"

// Sentinel kinds for chart errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported chart format")
	ErrNoData            = errors.New("nothing to plot")
)
