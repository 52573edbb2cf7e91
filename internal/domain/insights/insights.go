// Package insights derives rankings, growth figures and global aggregates
// from a cleaned dataset. It reads latest-snapshot rows and per-entity
// series; it never mutates the dataset.
package insights

import (
	"context"
	"sort"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

const (
	// DefaultTopN is how many entities a ranking carries.
	DefaultTopN = 5
	// DefaultGrowthSpan is how many trailing observations the growth
	// comparison looks back over.
	DefaultGrowthSpan = 30
)

// Entry is one entity's value inside a ranking.
type Entry struct {
	Location string        `json:"location"`
	Value    dataset.Float `json:"value"`
}

// GrowthEntry is one entity's percentage change of a cumulative metric over
// the growth span. Rate is unknown when the entity has too few observations
// or either endpoint is missing.
type GrowthEntry struct {
	Location string        `json:"location"`
	Rate     dataset.Float `json:"rate"`
}

// Aggregates are the snapshot-wide figures across all entities. Sums and
// means cover defined values only.
type Aggregates struct {
	Entities            int           `json:"entities"`
	TotalCases          dataset.Float `json:"total_cases"`
	TotalDeaths         dataset.Float `json:"total_deaths"`
	MeanDeathRate       dataset.Float `json:"mean_death_rate"`
	MeanVaccinationRate dataset.Float `json:"mean_vaccination_rate"`
	FirstDate           time.Time     `json:"first_date"`
	LastDate            time.Time     `json:"last_date"`
}

// Report is the full analytical summary of a dataset.
type Report struct {
	GeneratedAt        time.Time     `json:"generated_at"`
	Totals             Aggregates    `json:"totals"`
	TopCases           []Entry       `json:"top_cases"`
	TopDeathRate       []Entry       `json:"top_death_rate"`
	TopVaccinationRate []Entry       `json:"top_vaccination_rate"`
	CaseGrowth         []GrowthEntry `json:"case_growth"`
}

// Builder assembles reports from datasets.
type Builder struct {
	topN       int
	growthSpan int
	log        logger.Logger
}

// New creates a Builder.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{
		topN:       DefaultTopN,
		growthSpan: DefaultGrowthSpan,
		log:        logger.Get(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.topN < 1 || b.growthSpan < 1 {
		return nil, ErrInvalidParams
	}
	return b, nil
}

// Build derives the full report from a cleaned dataset.
func (b *Builder) Build(ctx context.Context, ds *dataset.Dataset) *Report {
	latest := ds.Latest()

	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Totals:      b.aggregates(ds, latest),
		TopCases:    TopBy(latest, dataset.TotalCases, b.topN),
		CaseGrowth:  b.growth(ds, dataset.TotalCases),
	}
	if ds.Schema.Has(dataset.DeathRate) {
		r.TopDeathRate = TopBy(latest, dataset.DeathRate, b.topN)
	}
	if ds.Schema.Has(dataset.VaccinationRate) {
		r.TopVaccinationRate = TopBy(latest, dataset.VaccinationRate, b.topN)
	}

	b.log.Debug(ctx, "report built",
		logger.Int("entities", r.Totals.Entities),
		logger.Int("top_n", b.topN),
	)
	return r
}

// TopBy ranks the snapshot rows by a metric, highest first. Entities whose
// value is unknown rank behind every known value; ties keep entity order.
func TopBy(latest []dataset.Observation, m dataset.Metric, n int) []Entry {
	entries := make([]Entry, 0, len(latest))
	for i := range latest {
		entries = append(entries, Entry{
			Location: latest[i].Location,
			Value:    latest[i].Get(m),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Value, entries[j].Value
		if a.Known != b.Known {
			return a.Known
		}
		return a.Val > b.Val
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// growth compares each entity's latest value of a metric against the value
// growthSpan observations earlier.
func (b *Builder) growth(ds *dataset.Dataset, m dataset.Metric) []GrowthEntry {
	if !ds.Schema.Has(m) {
		return nil
	}

	var out []GrowthEntry
	for _, entity := range ds.PerEntity() {
		out = append(out, GrowthEntry{
			Location: entity.Location,
			Rate:     b.growthRate(entity.Rows, m),
		})
	}
	return out
}

func (b *Builder) growthRate(rows []*dataset.Observation, m dataset.Metric) dataset.Float {
	if len(rows) <= b.growthSpan {
		return dataset.Unknown()
	}
	current := rows[len(rows)-1].Get(m)
	old := rows[len(rows)-1-b.growthSpan].Get(m)
	if !current.Known || !old.Known {
		return dataset.Unknown()
	}
	if old.Val == 0 {
		return dataset.Known(0)
	}
	return dataset.Known((current.Val - old.Val) / old.Val * 100)
}

func (b *Builder) aggregates(ds *dataset.Dataset, latest []dataset.Observation) Aggregates {
	first, last := ds.DateBounds()
	agg := Aggregates{
		Entities:  len(latest),
		FirstDate: first,
		LastDate:  last,
	}
	agg.TotalCases = sumKnown(latest, dataset.TotalCases)
	agg.TotalDeaths = sumKnown(latest, dataset.TotalDeaths)
	agg.MeanDeathRate = meanKnown(latest, dataset.DeathRate)
	agg.MeanVaccinationRate = meanKnown(latest, dataset.VaccinationRate)
	return agg
}

// sumKnown totals the known values of a metric; unknown when no entity has
// a known value.
func sumKnown(latest []dataset.Observation, m dataset.Metric) dataset.Float {
	sum := 0.0
	any := false
	for i := range latest {
		if v := latest[i].Get(m); v.Known {
			sum += v.Val
			any = true
		}
	}
	if !any {
		return dataset.Unknown()
	}
	return dataset.Known(sum)
}

// meanKnown averages the known values of a metric; unknown when none are.
func meanKnown(latest []dataset.Observation, m dataset.Metric) dataset.Float {
	sum := 0.0
	n := 0
	for i := range latest {
		if v := latest[i].Get(m); v.Known {
			sum += v.Val
			n++
		}
	}
	if n == 0 {
		return dataset.Unknown()
	}
	return dataset.Known(sum / float64(n))
}
