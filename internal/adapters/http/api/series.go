// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
)

// SeriesDependencies defines the interface for series queries.
type SeriesDependencies interface {
	Series(ctx context.Context, q SeriesQuery) ([]EntitySeries, error)
}

// SeriesHandler handles time-series requests.
type SeriesHandler struct {
	deps         SeriesDependencies
	maxCountries int
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps SeriesDependencies, maxCountries int) *SeriesHandler {
	return &SeriesHandler{
		deps:         deps,
		maxCountries: maxCountries,
	}
}

// queryableMetrics is the set of metric names a series request may name.
var queryableMetrics = func() map[dataset.Metric]bool {
	out := make(map[dataset.Metric]bool)
	for _, m := range dataset.SourceMetrics() {
		out[m] = true
	}
	out[dataset.DeathRate] = true
	out[dataset.VaccinationRate] = true
	return out
}()

// HandleGetSeries handles GET /series?countries=A,B&metric=M&from=D&to=D&rolling=true.
func (h *SeriesHandler) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_series"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := SeriesQuery{Metric: dataset.NewCases}

	q.Countries = parseCountries(r)
	if len(q.Countries) > h.maxCountries {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	if raw := r.URL.Query().Get("metric"); raw != "" {
		m := dataset.Metric(raw)
		if !queryableMetrics[m] {
			writeError(w, http.StatusBadRequest, "unknown_metric", NewKind(op, ErrUnknownMetric))
			return
		}
		q.Metric = m
	}

	var from, to time.Time
	for _, bound := range []struct {
		param string
		dst   *string
		t     *time.Time
	}{
		{"from", &q.From, &from},
		{"to", &q.To, &to},
	} {
		raw := r.URL.Query().Get(bound.param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dataset.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date", NewKind(op, ErrBadRequest))
			return
		}
		*bound.dst = raw
		*bound.t = t
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		writeError(w, http.StatusBadRequest, "bad_range", NewKind(op, ErrBadRequest))
		return
	}

	// rolling accepts true or a window figure; the window itself is fixed
	// by server configuration.
	switch rolling := r.URL.Query().Get("rolling"); rolling {
	case "", "false", "0":
	default:
		q.Rolling = true
	}

	series, err := h.deps.Series(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, series)
}
