package api

import (
	"context"
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps          StatsDependencies
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies, statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{deps: deps, statsProvider: statsProvider}
}

// HandleServiceStats handles GET /stats requests.
func (h *StatsHandler) HandleServiceStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats(r.Context()))
}

// HandleLeadStats handles GET /stats/leads requests.
func (h *StatsHandler) HandleLeadStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.lead_stats"
	st, err := h.deps.Stats(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleDistribution handles GET /stats/distribution?field= requests.
func (h *StatsHandler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.distribution"
	field := r.URL.Query().Get("field")
	if field == "" {
		field = "status"
	}
	groups, err := h.deps.Distribution(r.Context(), field)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
