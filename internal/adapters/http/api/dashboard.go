package api

import "net/http"

// DashboardHandler serves the dashboard snapshot.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleMetrics handles GET /dashboard/metrics requests.
func (h *DashboardHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard_metrics"
	m, err := h.deps.DashboardMetrics(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleSourceConversion handles GET /dashboard/source-conversion requests.
func (h *DashboardHandler) HandleSourceConversion(w http.ResponseWriter, r *http.Request) {
	const op = "api.source_conversion"
	rows, err := h.deps.SourceConversion(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
