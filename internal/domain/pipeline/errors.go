package pipeline

import "errors"

var (
	// ErrInvalidWindow is returned when the rolling window is not positive.
	ErrInvalidWindow = errors.New("rolling window must be at least 1")
)
