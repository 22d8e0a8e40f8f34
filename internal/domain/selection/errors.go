package selection

import "errors"

// Sentinel kinds for selection errors.
var (
	ErrInvalidRange = errors.New("invalid selection range")
	ErrNotFound     = errors.New("date not found")
)
