// Package source loads the epidemiological CSV over HTTP, converts it into
// the domain dataset and memoizes the result for a configurable TTL.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/metrics"
)

// Loader produces a cleaned-input dataset. Implemented by Fetcher and by
// the TTL Cache that fronts it.
type Loader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Fetcher downloads the dataset CSV and converts it to domain rows.
type Fetcher struct {
	url    string
	client *http.Client
	log    logger.Logger
}

// NewFetcher creates a Fetcher for the given CSV URL.
func NewFetcher(url string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		url:    url,
		client: http.DefaultClient,
		log:    logger.Named("fetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load downloads and decodes the dataset. Any failure is returned to the
// caller unchanged; there is no retry at this layer.
func (f *Fetcher) Load(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()
	metrics.RecordFetch()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		metrics.RecordFetchError()
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.RecordFetchError()
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError()
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	// Every column is read as a string; numeric parsing happens per cell
	// so that blanks stay distinguishable from zeros.
	df := dataframe.ReadCSV(resp.Body,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		metrics.RecordFetchError()
		return nil, fmt.Errorf("%w: %v", ErrDecode, df.Error())
	}

	ds, err := toDataset(df)
	if err != nil {
		metrics.RecordFetchError()
		return nil, err
	}

	metrics.RecordFetchDuration(time.Since(start).Seconds())
	metrics.UpdateDatasetRows(ds.Len())
	metrics.UpdateDatasetEntities(len(ds.Entities()))
	metrics.UpdateLastFetchUnix(time.Now().Unix())

	f.log.Info(ctx, "dataset loaded",
		logger.String("url", f.url),
		logger.Int("rows", ds.Len()),
		logger.Int("entities", len(ds.Entities())),
		logger.Duration("took", time.Since(start)),
	)
	return ds, nil
}
