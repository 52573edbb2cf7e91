// Package config defines tracker configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and environment.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"time"
)

// Default dataset source (Our World in Data daily CSV).
const defaultDatasetURL = "https://covid.ourworldindata.org/data/owid-covid-data.csv"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetURL points at the source CSV.
	DatasetURL string `koanf:"dataset_url"`

	// FetchTimeout bounds a single dataset retrieval.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// CacheTTL bounds how long a fetched dataset is reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Countries is the default entity selection.
	Countries []string `koanf:"countries"`

	// RollingWindow sets the trailing window for rolling averages.
	RollingWindow int `koanf:"rolling_window"`

	// MaxCountries caps the number of entities per request.
	MaxCountries int `koanf:"max_countries"`

	// ChartDir is where one-shot mode writes PNG charts.
	ChartDir string `koanf:"chart_dir"`

	// ReportFile is the one-shot summary report path.
	ReportFile string `koanf:"report_file"`

	// SnapshotXLSX is the one-shot latest-snapshot table path.
	SnapshotXLSX string `koanf:"snapshot_xlsx"`
}

// New creates a Config with defaults matching the hosted OWID dataset.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		DatasetURL:    defaultDatasetURL,
		FetchTimeout:  2 * time.Minute,
		CacheTTL:      time.Hour,
		Countries:     []string{"United States", "India", "Brazil", "United Kingdom", "Kenya"},
		RollingWindow: 7,
		MaxCountries:  25,
		ChartDir:      "charts",
		ReportFile:    "covid19_analysis_summary.txt",
		SnapshotXLSX:  "latest_snapshot.xlsx",
	}
}
