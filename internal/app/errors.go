package service

import "errors"

// Sentinel kinds for dashboard errors.
var (
	ErrNoSource        = errors.New("no data source configured")
	ErrUnknownTab      = errors.New("unknown tab")
	ErrDateOutOfBounds = errors.New("date outside the selectable window")
)
