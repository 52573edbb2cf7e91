// Package pipeline cleans a raw dataset and derives its analytical metrics:
// per-entity forward fill, death and vaccination rates, and trailing rolling
// means. All passes mutate the dataset in place and are idempotent.
package pipeline

import (
	"context"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/metrics"
)

// DefaultWindow is the trailing window for rolling means.
const DefaultWindow = 7

// Pipeline applies the cleaning and derivation passes in a fixed order.
type Pipeline struct {
	window  int
	fill    []dataset.Metric
	rolling []dataset.Metric
	log     logger.Logger
}

// New creates a Pipeline. Defaults: window 7, forward fill over the
// cumulative metrics, rolling means over new cases and new deaths.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		window:  DefaultWindow,
		fill:    dataset.CumulativeMetrics(),
		rolling: []dataset.Metric{dataset.NewCases, dataset.NewDeaths},
		log:     logger.Get(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.window < 1 {
		return nil, ErrInvalidWindow
	}
	return p, nil
}

// Run executes every pass on the dataset: forward fill, both rates, then a
// rolling mean per configured metric. Passes that need a column the source
// did not carry are skipped.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) {
	start := time.Now()

	filled := p.ForwardFill(ds)
	p.ComputeDeathRate(ds)
	p.ComputeVaccinationRate(ds)
	for _, m := range p.rolling {
		p.RollingMean(ds, m)
	}

	metrics.RecordPipelineRun()
	metrics.RecordPipelineDuration(time.Since(start).Seconds())
	metrics.RecordValuesFilled(filled)

	p.log.Debug(ctx, "pipeline run complete",
		logger.Int("rows", ds.Len()),
		logger.Int("filled", filled),
		logger.Duration("took", time.Since(start)),
	)
}

// ForwardFill carries each entity's last known value forward over missing
// observations for every configured metric. Fills never cross an entity
// boundary and leading missing values stay missing. Returns the number of
// values written.
func (p *Pipeline) ForwardFill(ds *dataset.Dataset) int {
	filled := 0
	for _, m := range p.fill {
		if !ds.Schema.Has(m) {
			continue
		}
		for _, entity := range ds.PerEntity() {
			last := dataset.Unknown()
			for _, row := range entity.Rows {
				v := row.Get(m)
				if v.Known {
					last = v
					continue
				}
				if last.Known {
					row.Set(m, last)
					filled++
				}
			}
		}
	}
	return filled
}

// ComputeDeathRate derives total_deaths / total_cases * 100 per row. The
// rate is defined only when total cases are known and positive and total
// deaths are known; otherwise it is unknown.
func (p *Pipeline) ComputeDeathRate(ds *dataset.Dataset) {
	if !ds.Schema.Has(dataset.TotalCases) || !ds.Schema.Has(dataset.TotalDeaths) {
		return
	}
	for i := range ds.Rows {
		row := &ds.Rows[i]
		cases := row.Get(dataset.TotalCases)
		deaths := row.Get(dataset.TotalDeaths)
		if cases.Known && cases.Val > 0 && deaths.Known {
			row.Set(dataset.DeathRate, dataset.Known(deaths.Val/cases.Val*100))
		} else {
			row.Set(dataset.DeathRate, dataset.Unknown())
		}
	}
	ds.Schema[dataset.DeathRate] = true
}

// ComputeVaccinationRate derives people_vaccinated / population * 100 per
// row, defined only when the population is known and positive and the
// vaccinated count is known.
func (p *Pipeline) ComputeVaccinationRate(ds *dataset.Dataset) {
	if !ds.Schema.Has(dataset.PeopleVaccinated) || !ds.Schema.Has(dataset.Population) {
		return
	}
	for i := range ds.Rows {
		row := &ds.Rows[i]
		vaccinated := row.Get(dataset.PeopleVaccinated)
		population := row.Get(dataset.Population)
		if population.Known && population.Val > 0 && vaccinated.Known {
			row.Set(dataset.VaccinationRate, dataset.Known(vaccinated.Val/population.Val*100))
		} else {
			row.Set(dataset.VaccinationRate, dataset.Unknown())
		}
	}
	ds.Schema[dataset.VaccinationRate] = true
}

// RollingMean derives the trailing mean of a metric per entity. The mean at
// a row covers that row and the window-1 preceding rows of the same entity;
// it is unknown for the first window-1 rows and whenever any value in the
// window is unknown.
func (p *Pipeline) RollingMean(ds *dataset.Dataset, m dataset.Metric) {
	if !ds.Schema.Has(m) {
		return
	}
	out := dataset.Rolling(m)
	for _, entity := range ds.PerEntity() {
		sum := 0.0
		known := 0
		for i, row := range entity.Rows {
			v := row.Get(m)
			if v.Known {
				sum += v.Val
				known++
			}
			if i >= p.window {
				old := entity.Rows[i-p.window].Get(m)
				if old.Known {
					sum -= old.Val
					known--
				}
			}
			if i >= p.window-1 && known == p.window {
				row.Set(out, dataset.Known(sum/float64(p.window)))
			} else {
				row.Set(out, dataset.Unknown())
			}
		}
	}
	ds.Schema[out] = true
}
