// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/http/api"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/source"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/pipeline"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// ErrNoLoader is returned when the service is built without a dataset loader.
var ErrNoLoader = errors.New("service requires a dataset loader")

// Service implements the API dependencies for the tracker.
type Service struct {
	mu sync.Mutex

	// Core components
	loader  source.Loader
	pipe    *pipeline.Pipeline
	builder *insights.Builder

	// Configuration
	defaultCountries []string
	window           int

	// Cleaned-dataset memo, keyed on the loader's returned pointer so the
	// pipeline reruns exactly when the TTL cache refetches.
	rawRef  *dataset.Dataset
	cleaned *dataset.Dataset

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the dataset loader.
func WithLoader(l source.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithCountries sets the default entity selection for series queries.
func WithCountries(countries []string) Option {
	return func(s *Service) {
		if len(countries) > 0 {
			s.defaultCountries = countries
		}
	}
}

// WithWindow sets the rolling-mean window.
func WithWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		window: pipeline.DefaultWindow,
		logger: logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		return nil, ErrNoLoader
	}

	pipe, err := pipeline.New(
		pipeline.WithWindow(s.window),
		pipeline.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.pipe = pipe

	builder, err := insights.New(insights.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.builder = builder

	return s, nil
}

// dataset returns the cleaned dataset, rerunning the pipeline only when the
// loader hands back a new raw dataset.
func (s *Service) dataset(ctx context.Context) (*dataset.Dataset, error) {
	raw, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw == s.rawRef && s.cleaned != nil {
		return s.cleaned, nil
	}

	// Work on a deep copy so the loader's cached rows stay raw.
	cleaned := raw.FilterDateRange(time.Time{}, time.Time{})
	s.pipe.Run(ctx, cleaned)

	s.rawRef = raw
	s.cleaned = cleaned
	s.logger.Info(ctx, "dataset cleaned",
		logger.Int("rows", cleaned.Len()),
		logger.Int("entities", len(cleaned.Entities())),
	)
	return cleaned, nil
}

// Countries lists every entity present in the dataset.
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Entities(), nil
}

// Series returns per-entity time series for one metric.
func (s *Service) Series(ctx context.Context, q api.SeriesQuery) ([]api.EntitySeries, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	countries := q.Countries
	if len(countries) == 0 {
		countries = s.defaultCountries
	}
	subset := ds
	if len(countries) > 0 {
		subset = ds.FilterEntities(countries)
	}

	// The rolling mean needs the full history, so it is derived before any
	// date filtering narrows the window's context.
	metric := q.Metric
	if q.Rolling {
		rolled := dataset.Rolling(metric)
		if !subset.Schema.Has(rolled) {
			if subset == ds {
				subset = ds.FilterDateRange(time.Time{}, time.Time{})
			}
			s.pipe.RollingMean(subset, metric)
		}
		metric = rolled
	}

	from := parseDate(q.From)
	to := parseDate(q.To)
	if !from.IsZero() || !to.IsZero() {
		subset = subset.FilterDateRange(from, to)
	}

	out := make([]api.EntitySeries, 0, len(subset.Entities()))
	for _, entity := range subset.PerEntity() {
		es := api.EntitySeries{
			Location: entity.Location,
			Metric:   string(metric),
			Points:   make([]api.Point, 0, len(entity.Rows)),
		}
		for _, row := range entity.Rows {
			es.Points = append(es.Points, api.Point{
				Date:  row.Date.Format(dataset.DateLayout),
				Value: row.Get(metric),
			})
		}
		out = append(out, es)
	}
	return out, nil
}

// Latest returns the max-date snapshot row per entity, restricted to the
// named countries when any are given.
func (s *Service) Latest(ctx context.Context, countries []string) ([]api.SnapshotRow, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	if len(countries) > 0 {
		ds = ds.FilterEntities(countries)
	}

	latest := ds.Latest()
	out := make([]api.SnapshotRow, 0, len(latest))
	for i := range latest {
		row := &latest[i]
		out = append(out, api.SnapshotRow{
			Location: row.Location,
			Code:     row.Code,
			Date:     row.Date.Format(dataset.DateLayout),
			Values:   row.Values,
		})
	}
	return out, nil
}

// Insights returns the analytical report, restricted to the named countries
// when any are given.
func (s *Service) Insights(ctx context.Context, countries []string) (*insights.Report, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	if len(countries) > 0 {
		ds = ds.FilterEntities(countries)
	}
	return s.builder.Build(ctx, ds), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"window":            s.window,
		"default_countries": s.defaultCountries,
		"dataset_loaded":    s.cleaned != nil,
	}
	if s.cleaned != nil {
		first, last := s.cleaned.DateBounds()
		stats["rows"] = s.cleaned.Len()
		stats["entities"] = len(s.cleaned.Entities())
		stats["first_date"] = first.Format(dataset.DateLayout)
		stats["last_date"] = last.Format(dataset.DateLayout)
	}
	return stats
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dataset.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
