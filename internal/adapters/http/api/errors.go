package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnknownChart  = errors.New("unknown chart")
	ErrTemplateError = errors.New("dashboard template failed")
)
