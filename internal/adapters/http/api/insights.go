// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
)

// InsightsDependencies defines the interface for report queries.
type InsightsDependencies interface {
	Insights(ctx context.Context, countries []string) (*insights.Report, error)
}

// InsightsHandler handles analytical report requests.
type InsightsHandler struct {
	deps         InsightsDependencies
	maxCountries int
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightsDependencies, maxCountries int) *InsightsHandler {
	return &InsightsHandler{deps: deps, maxCountries: maxCountries}
}

// HandleGetInsights handles GET /insights?countries=A,B requests.
func (h *InsightsHandler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_insights"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	countries := parseCountries(r)
	if len(countries) > h.maxCountries {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	report, err := h.deps.Insights(r.Context(), countries)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
