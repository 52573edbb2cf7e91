// Package report runs the one-shot analysis flow: fetch the dataset, clean
// it, and write charts, the snapshot workbook and the text summary to disk.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/render"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/source"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/config"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/pipeline"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// Runner orchestrates a single fetch-clean-render pass.
type Runner struct {
	cfg    *config.Config
	loader source.Loader
	log    logger.Logger
}

// New creates a Runner for the given configuration.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("report runner requires a config")
	}
	r := &Runner{
		cfg: cfg,
		log: logger.Named("report"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loader == nil {
		r.loader = source.NewFetcher(cfg.DatasetURL)
	}
	return r, nil
}

// chartSpec names one artifact of the report.
type chartSpec struct {
	metric   dataset.Metric
	rolling  bool
	title    string
	filename string
}

var charts = []chartSpec{
	{metric: dataset.TotalCases, title: "Total cases over time", filename: "cases_over_time.png"},
	{metric: dataset.NewCases, rolling: true, title: "Daily new cases (rolling mean)", filename: "daily_new_cases.png"},
	{metric: dataset.NewDeaths, rolling: true, title: "Daily new deaths (rolling mean)", filename: "daily_new_deaths.png"},
	{metric: dataset.TotalDeaths, title: "Total deaths over time", filename: "deaths_over_time.png"},
	{metric: dataset.TotalVaccinations, title: "Total vaccinations over time", filename: "vaccinations_over_time.png"},
	{metric: dataset.DeathRate, title: "Death rate over time", filename: "death_rate_over_time.png"},
	{metric: dataset.VaccinationRate, title: "Vaccination rate over time", filename: "vaccination_rate_over_time.png"},
}

// snapshotColumns are the workbook columns, filtered to what the source and
// the pipeline actually produced.
var snapshotColumns = []dataset.Metric{
	dataset.TotalCases, dataset.NewCases,
	dataset.TotalDeaths, dataset.NewDeaths,
	dataset.TotalVaccinations, dataset.PeopleVaccinated,
	dataset.DeathRate, dataset.VaccinationRate,
}

// Run executes the full pass. A chart with nothing to plot is skipped with
// a warning; fetch and decode failures abort the run.
func (r *Runner) Run(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout)
	defer cancel()

	raw, err := r.loader.Load(fetchCtx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	ds := raw.FilterDateRange(time.Time{}, time.Time{})
	pipe, err := pipeline.New(
		pipeline.WithWindow(r.cfg.RollingWindow),
		pipeline.WithLogger(r.log),
	)
	if err != nil {
		return err
	}
	pipe.Run(ctx, ds)

	selection := ds
	if len(r.cfg.Countries) > 0 {
		selection = ds.FilterEntities(r.cfg.Countries)
	}
	if selection.Len() == 0 {
		return errors.New("no rows match the configured countries")
	}

	renderer, err := render.New(r.cfg.ChartDir, render.WithLogger(r.log))
	if err != nil {
		return err
	}

	for _, spec := range charts {
		metric := spec.metric
		if spec.rolling {
			metric = dataset.Rolling(metric)
		}
		if !selection.Schema.Has(metric) {
			continue
		}
		if _, err := renderer.TimeSeriesChart(ctx, selection, metric, spec.title, spec.filename); err != nil {
			if errors.Is(err, render.ErrNoData) {
				r.log.Warn(ctx, "chart skipped", logger.String("file", spec.filename), logger.Error(err))
				continue
			}
			return err
		}
	}

	latest := selection.Latest()
	if selection.Schema.Has(dataset.VaccinationRate) {
		if _, err := renderer.SnapshotBar(ctx, latest, dataset.VaccinationRate,
			"Latest vaccination rate", "vaccination_rate.png"); err != nil && !errors.Is(err, render.ErrNoData) {
			return err
		}
	}

	columns := make([]dataset.Metric, 0, len(snapshotColumns))
	for _, m := range snapshotColumns {
		if selection.Schema.Has(m) {
			columns = append(columns, m)
		}
	}
	if _, err := renderer.SnapshotXLSX(ctx, latest, columns, r.cfg.SnapshotXLSX); err != nil {
		return err
	}

	builder, err := insights.New(insights.WithLogger(r.log))
	if err != nil {
		return err
	}
	if _, err := renderer.WriteSummary(ctx, builder.Build(ctx, selection), selection.Schema, r.cfg.ReportFile); err != nil {
		return err
	}

	r.log.Info(ctx, "report complete",
		logger.String("dir", r.cfg.ChartDir),
		logger.Strings("countries", selection.Entities()),
	)
	return nil
}
