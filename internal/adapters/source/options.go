package source

import (
	"net/http"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for dataset requests.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithFetcherLogger sets the fetcher's logger.
func WithFetcherLogger(l logger.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.log = l
	}
}
