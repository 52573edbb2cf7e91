// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// LatestDependencies defines the interface for snapshot queries.
type LatestDependencies interface {
	Latest(ctx context.Context, countries []string) ([]SnapshotRow, error)
}

// LatestHandler handles latest-snapshot requests.
type LatestHandler struct {
	deps         LatestDependencies
	maxCountries int
}

// NewLatestHandler creates a new latest handler.
func NewLatestHandler(deps LatestDependencies, maxCountries int) *LatestHandler {
	return &LatestHandler{deps: deps, maxCountries: maxCountries}
}

// HandleGetLatest handles GET /latest?countries=A,B requests.
func (h *LatestHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_latest"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	countries := parseCountries(r)
	if len(countries) > h.maxCountries {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	rows, err := h.deps.Latest(r.Context(), countries)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
