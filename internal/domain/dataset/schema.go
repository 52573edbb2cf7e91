package dataset

// Metric names a numeric column of the source dataset or a derived field.
// Source names match the OWID CSV header.
type Metric string

// Source metrics.
const (
	TotalCases        Metric = "total_cases"
	NewCases          Metric = "new_cases"
	TotalDeaths       Metric = "total_deaths"
	NewDeaths         Metric = "new_deaths"
	TotalVaccinations Metric = "total_vaccinations"
	PeopleVaccinated  Metric = "people_vaccinated"
	Population        Metric = "population"
	HospPatients      Metric = "hosp_patients"
	ICUPatients       Metric = "icu_patients"
)

// Derived metrics.
const (
	DeathRate       Metric = "death_rate"
	VaccinationRate Metric = "vaccination_rate"
)

// SourceMetrics lists every numeric column the loader looks for. Columns
// absent from the source are recorded as unavailable in the Schema, never
// treated as an error.
func SourceMetrics() []Metric {
	return []Metric{
		TotalCases, NewCases, TotalDeaths, NewDeaths,
		TotalVaccinations, PeopleVaccinated, Population,
		HospPatients, ICUPatients,
	}
}

// CumulativeMetrics is the default forward-fill selection.
func CumulativeMetrics() []Metric {
	return []Metric{
		TotalCases, NewCases, TotalDeaths, NewDeaths,
		TotalVaccinations, PeopleVaccinated,
	}
}

// Rolling names the derived trailing-mean field for a metric.
func Rolling(m Metric) Metric {
	return "rolling_" + m
}

// Schema records which optional source columns were present, decided once
// at load time.
type Schema map[Metric]bool

// Has reports whether the source carried the given metric column.
func (s Schema) Has(m Metric) bool {
	return s[m]
}

// Clone returns an independent copy.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for m, ok := range s {
		out[m] = ok
	}
	return out
}
