package insights

import "errors"

var (
	// ErrInvalidParams is returned when topN or the growth span is not positive.
	ErrInvalidParams = errors.New("top-n and growth span must be at least 1")
)
