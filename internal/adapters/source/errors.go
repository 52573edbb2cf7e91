package source

import "errors"

var (
	// ErrFetch is returned when the dataset request cannot be completed.
	ErrFetch = errors.New("failed to fetch dataset")
	// ErrBadStatus is returned on a non-200 response from the dataset host.
	ErrBadStatus = errors.New("unexpected dataset response status")
	// ErrDecode is returned when the response body is not parseable CSV.
	ErrDecode = errors.New("failed to decode dataset CSV")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("dataset is missing a required column")
)
