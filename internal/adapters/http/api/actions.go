package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/leadboard/internal/app"
	"github.com/okian/leadboard/internal/domain/model"
)

const maxActionBody = 64 << 10

// noteRequest mirrors the OpenAPI schema for POST /leads/{id}/notes.
type noteRequest struct {
	ActionID string `json:"action_id"`
	Note     string `json:"note"`
	Author   string `json:"author"`
}

// statusRequest mirrors the OpenAPI schema for PUT /leads/{id}/status.
type statusRequest struct {
	ActionID string `json:"action_id"`
	Status   string `json:"status"`
	Author   string `json:"author"`
}

// bulkRequest mirrors the OpenAPI schema for POST /leads/bulk.
type bulkRequest struct {
	ActionID string   `json:"action_id"`
	Action   string   `json:"action"`
	LeadIDs  []string `json:"lead_ids"`
	Assignee string   `json:"assignee"`
	Author   string   `json:"author"`
}

func (b bulkRequest) validate() error {
	if strings.TrimSpace(b.Action) == "" {
		return errors.New("missing action")
	}
	for _, k := range model.BulkActionKinds {
		if model.ActionKind(b.Action) == k {
			return nil
		}
	}
	return fmt.Errorf("unsupported bulk action %q", b.Action)
}

type ackResponse struct {
	Status    string `json:"status"`
	ActionID  string `json:"action_id"`
	Duplicate bool   `json:"duplicate"`
}

// ActionsHandler turns write requests into actions for the service pipeline.
type ActionsHandler struct {
	deps ActionDependencies
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps ActionDependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandleAddNote handles POST /leads/{id}/notes requests.
func (h *ActionsHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_note"
	var req noteRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.submit(w, r, op, model.Action{
		ID:      req.ActionID,
		Kind:    model.ActionAddNote,
		LeadIDs: []string{chi.URLParam(r, "id")},
		Note:    req.Note,
		Author:  req.Author,
	})
}

// HandleUpdateStatus handles PUT /leads/{id}/status requests.
func (h *ActionsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_status"
	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	status, _ := model.ParseStatus(req.Status)
	h.submit(w, r, op, model.Action{
		ID:      req.ActionID,
		Kind:    model.ActionUpdateStatus,
		LeadIDs: []string{chi.URLParam(r, "id")},
		Status:  status,
		Author:  req.Author,
	})
}

// HandleBulk handles POST /leads/bulk requests.
func (h *ActionsHandler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	const op = "api.bulk_action"
	var req bulkRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.submit(w, r, op, model.Action{
		ID:       req.ActionID,
		Kind:     model.ActionKind(req.Action),
		LeadIDs:  req.LeadIDs,
		Assignee: req.Assignee,
		Author:   req.Author,
	})
}

func (h *ActionsHandler) submit(w http.ResponseWriter, r *http.Request, op string, a model.Action) { //nolint:gocritic // hugeParam
	receipt, err := h.deps.Submit(r.Context(), a)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeReceipt(w, receipt)
}

func writeReceipt(w http.ResponseWriter, rc service.Receipt) {
	if rc.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", ActionID: rc.ActionID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ActionID: rc.ActionID})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
