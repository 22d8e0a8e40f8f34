package repository

import "errors"

// Sentinel kinds for data source errors.
var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrMissingFile     = errors.New("data file not found")
	ErrMalformed       = errors.New("malformed data file")
)
