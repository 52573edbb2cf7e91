// Package dataset contains the domain model for epidemiological time series:
// one Observation per (entity, date), collected into an ordered Dataset.
package dataset

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day format used throughout the tracker.
const DateLayout = "2006-01-02"

// Observation is one entity's metrics on one calendar date.
type Observation struct {
	Location string
	Code     string // ISO code, used for geographic rendering
	Date     time.Time
	Values   map[Metric]Float
}

// Get returns the value for a metric, unknown when absent.
func (o *Observation) Get(m Metric) Float {
	if o.Values == nil {
		return Unknown()
	}
	return o.Values[m]
}

// Set stores a metric value on the observation.
func (o *Observation) Set(m Metric, v Float) {
	if o.Values == nil {
		o.Values = make(map[Metric]Float)
	}
	o.Values[m] = v
}

// clone deep-copies the observation so working subsets can be mutated
// without touching the cached source rows.
func (o *Observation) clone() Observation {
	out := *o
	out.Values = make(map[Metric]Float, len(o.Values))
	for m, v := range o.Values {
		out.Values[m] = v
	}
	return out
}

// Dataset is an observation collection ordered by entity then date, with at
// most one observation per (entity, date).
type Dataset struct {
	Schema Schema
	Rows   []Observation
}

// New builds a Dataset from raw rows: rows are sorted by entity then date
// and duplicate (entity, date) pairs are dropped, keeping the first seen.
func New(schema Schema, rows []Observation) *Dataset {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Location != rows[j].Location {
			return rows[i].Location < rows[j].Location
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	deduped := rows[:0]
	for i := range rows {
		if i > 0 && rows[i].Location == rows[i-1].Location && rows[i].Date.Equal(rows[i-1].Date) {
			continue
		}
		deduped = append(deduped, rows[i])
	}

	return &Dataset{Schema: schema, Rows: deduped}
}

// Len returns the number of observations.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Entities returns the distinct entity names in order.
func (d *Dataset) Entities() []string {
	var out []string
	for i := range d.Rows {
		if i == 0 || d.Rows[i].Location != d.Rows[i-1].Location {
			out = append(out, d.Rows[i].Location)
		}
	}
	return out
}

// FilterEntities returns an independent working subset restricted to the
// given entity names. Names absent from the dataset contribute nothing;
// that is not an error.
func (d *Dataset) FilterEntities(names []string) *Dataset {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := &Dataset{Schema: d.Schema.Clone()}
	for i := range d.Rows {
		if want[d.Rows[i].Location] {
			out.Rows = append(out.Rows, d.Rows[i].clone())
		}
	}
	return out
}

// FilterDateRange returns an independent subset with dates in [from, to].
// Zero bounds are open.
func (d *Dataset) FilterDateRange(from, to time.Time) *Dataset {
	out := &Dataset{Schema: d.Schema.Clone()}
	for i := range d.Rows {
		date := d.Rows[i].Date
		if !from.IsZero() && date.Before(from) {
			continue
		}
		if !to.IsZero() && date.After(to) {
			continue
		}
		out.Rows = append(out.Rows, d.Rows[i].clone())
	}
	return out
}

// EntityRows is one entity's date-ordered slice of the dataset. Rows point
// into the parent dataset so per-entity scans can mutate in place.
type EntityRows struct {
	Location string
	Rows     []*Observation
}

// PerEntity partitions the dataset by entity, preserving row order.
func (d *Dataset) PerEntity() []EntityRows {
	var out []EntityRows
	for i := range d.Rows {
		row := &d.Rows[i]
		if i == 0 || row.Location != d.Rows[i-1].Location {
			out = append(out, EntityRows{Location: row.Location})
		}
		last := &out[len(out)-1]
		last.Rows = append(last.Rows, row)
	}
	return out
}

// Latest reduces the dataset to the max-date observation per entity,
// ordered by entity name. Rows are ordered by date within an entity, so the
// last row of each partition is the latest.
func (d *Dataset) Latest() []Observation {
	var out []Observation
	for _, e := range d.PerEntity() {
		out = append(out, e.Rows[len(e.Rows)-1].clone())
	}
	return out
}

// DateBounds returns the minimum and maximum dates in the dataset, zero
// values when empty.
func (d *Dataset) DateBounds() (time.Time, time.Time) {
	var minDate, maxDate time.Time
	for i := range d.Rows {
		date := d.Rows[i].Date
		if minDate.IsZero() || date.Before(minDate) {
			minDate = date
		}
		if maxDate.IsZero() || date.After(maxDate) {
			maxDate = date
		}
	}
	return minDate, maxDate
}
