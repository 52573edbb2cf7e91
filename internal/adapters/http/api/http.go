// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Countries lists every entity present in the dataset.
	Countries(ctx context.Context) ([]string, error)

	// Series returns per-entity time series for one metric.
	Series(ctx context.Context, q SeriesQuery) ([]EntitySeries, error)

	// Latest returns the max-date snapshot row per entity, optionally
	// restricted to the named countries.
	Latest(ctx context.Context, countries []string) ([]SnapshotRow, error)

	// Insights returns the analytical report, optionally restricted to the
	// named countries.
	Insights(ctx context.Context, countries []string) (*insights.Report, error)
}

// SeriesQuery narrows a series request. An empty Countries slice means the
// configured default selection; zero From/To leave that bound open.
type SeriesQuery struct {
	Countries []string
	Metric    dataset.Metric
	From      string
	To        string
	Rolling   bool
}

// Point is one dated value of a series.
type Point struct {
	Date  string        `json:"date"`
	Value dataset.Float `json:"value"`
}

// EntitySeries mirrors the read shape returned by series queries.
type EntitySeries struct {
	Location string  `json:"location"`
	Metric   string  `json:"metric"`
	Points   []Point `json:"points"`
}

// SnapshotRow mirrors the read shape of the latest snapshot.
type SnapshotRow struct {
	Location string                         `json:"location"`
	Code     string                         `json:"code,omitempty"`
	Date     string                         `json:"date"`
	Values   map[dataset.Metric]dataset.Float `json:"values"`
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	countriesHandler *CountriesHandler
	seriesHandler    *SeriesHandler
	latestHandler    *LatestHandler
	insightsHandler  *InsightsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxCountries int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		countriesHandler: NewCountriesHandler(deps),
		seriesHandler:    NewSeriesHandler(deps, maxCountries),
		latestHandler:    NewLatestHandler(deps, maxCountries),
		insightsHandler:  NewInsightsHandler(deps, maxCountries),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/countries", RequestIDMiddleware(MetricsMiddleware(s.countriesHandler.HandleGetCountries, "countries")))
	mux.HandleFunc("/series", RequestIDMiddleware(MetricsMiddleware(s.seriesHandler.HandleGetSeries, "series")))
	mux.HandleFunc("/latest", RequestIDMiddleware(MetricsMiddleware(s.latestHandler.HandleGetLatest, "latest")))
	mux.HandleFunc("/insights", RequestIDMiddleware(MetricsMiddleware(s.insightsHandler.HandleGetInsights, "insights")))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseCountries splits a comma-separated countries parameter.
func parseCountries(r *http.Request) []string {
	raw := r.URL.Query().Get("countries")
	if raw == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
