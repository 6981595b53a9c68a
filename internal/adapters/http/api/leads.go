package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/domain/query"
)

// LeadsHandler handles lead list and detail requests.
type LeadsHandler struct {
	deps LeadDependencies
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(deps LeadDependencies) *LeadsHandler {
	return &LeadsHandler{deps: deps}
}

// HandleList handles GET /leads?q=&status=&source=&assigned_to= requests.
func (h *LeadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_leads"
	q := r.URL.Query()
	leads, err := h.deps.Leads(r.Context(), query.Criteria{
		Query:      q.Get("q"),
		Status:     q.Get("status"),
		Source:     q.Get("source"),
		AssignedTo: q.Get("assigned_to"),
	})
	writeLeads(w, op, leads, err)
}

// HandleGet handles GET /leads/{id} requests.
func (h *LeadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_lead"
	lead, err := h.deps.Lead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// HandleOverdue handles GET /leads/overdue?now=RFC3339 requests.
func (h *LeadsHandler) HandleOverdue(w http.ResponseWriter, r *http.Request) {
	const op = "api.overdue_leads"
	var now time.Time
	if raw := r.URL.Query().Get("now"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		now = t
	}
	leads, err := h.deps.Overdue(r.Context(), now)
	writeLeads(w, op, leads, err)
}

// HandleTop handles GET /leads/top?limit=N requests.
func (h *LeadsHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_leads"
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	leads, err := h.deps.Top(r.Context(), n)
	writeLeads(w, op, leads, err)
}

// HandleAssignees handles GET /leads/assignees requests.
func (h *LeadsHandler) HandleAssignees(w http.ResponseWriter, r *http.Request) {
	const op = "api.assignees"
	names, err := h.deps.Assignees(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func writeLeads(w http.ResponseWriter, op string, leads []model.Lead, err error) {
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}
