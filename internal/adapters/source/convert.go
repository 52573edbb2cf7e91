package source

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
)

const (
	locationColumn = "location"
	dateColumn     = "date"
	isoCodeColumn  = "iso_code"
)

// toDataset converts a raw string dataframe into domain rows. Location and
// date are required; every other column is optional and its absence is
// recorded in the schema rather than treated as an error.
func toDataset(df dataframe.DataFrame) (*dataset.Dataset, error) {
	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, required := range []string{locationColumn, dateColumn} {
		if !present[required] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	schema := make(dataset.Schema, len(dataset.SourceMetrics()))
	columns := make(map[dataset.Metric][]string)
	for _, m := range dataset.SourceMetrics() {
		schema[m] = present[string(m)]
		if schema[m] {
			columns[m] = df.Col(string(m)).Records()
		}
	}

	locations := df.Col(locationColumn).Records()
	dates := df.Col(dateColumn).Records()
	var codes []string
	if present[isoCodeColumn] {
		codes = df.Col(isoCodeColumn).Records()
	}

	rows := make([]dataset.Observation, 0, len(locations))
	for i := range locations {
		date, err := time.Parse(dataset.DateLayout, dates[i])
		if err != nil {
			// Rows with unparseable dates cannot be ordered; skip them.
			continue
		}

		row := dataset.Observation{Location: locations[i], Date: date}
		if codes != nil {
			row.Code = codes[i]
		}
		for m, records := range columns {
			row.Set(m, dataset.ParseFloat(records[i]))
		}
		rows = append(rows, row)
	}

	return dataset.New(schema, rows), nil
}
