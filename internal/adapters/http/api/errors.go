package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUpstream      = errors.New("dataset unavailable")
)
