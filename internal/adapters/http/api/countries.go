// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// CountriesDependencies defines the interface for country listing.
type CountriesDependencies interface {
	Countries(ctx context.Context) ([]string, error)
}

// CountriesHandler handles country listing requests.
type CountriesHandler struct {
	deps CountriesDependencies
}

// NewCountriesHandler creates a new countries handler.
func NewCountriesHandler(deps CountriesDependencies) *CountriesHandler {
	return &CountriesHandler{deps: deps}
}

// HandleGetCountries handles GET /countries requests.
func (h *CountriesHandler) HandleGetCountries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_countries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	countries, err := h.deps.Countries(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, countries)
}
