package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ActionKind names a management action a user can run against leads.
type ActionKind string

// Supported action kinds.
const (
	ActionAddNote         ActionKind = "add-note"
	ActionUpdateStatus    ActionKind = "update-status"
	ActionAssign          ActionKind = "assign"
	ActionStatusContacted ActionKind = "status-contacted"
	ActionStatusFollowUp  ActionKind = "status-followup"
	ActionSendEmail       ActionKind = "send-email"
	ActionExport          ActionKind = "export"
)

// ActionKinds lists every supported kind.
var ActionKinds = []ActionKind{
	ActionAddNote,
	ActionUpdateStatus,
	ActionAssign,
	ActionStatusContacted,
	ActionStatusFollowUp,
	ActionSendEmail,
	ActionExport,
}

// BulkActionKinds lists the kinds offered on a multi-lead selection.
var BulkActionKinds = []ActionKind{
	ActionAssign,
	ActionStatusContacted,
	ActionStatusFollowUp,
	ActionSendEmail,
	ActionExport,
}

// Known reports whether k is a supported kind.
func (k ActionKind) Known() bool { return contains(ActionKinds, k) }

// TargetStatus returns the status an action moves its leads to, if any.
func (a Action) TargetStatus() (Status, bool) {
	switch a.Kind {
	case ActionUpdateStatus:
		return a.Status, a.Status.Known()
	case ActionStatusContacted:
		return StatusContacted, true
	case ActionStatusFollowUp:
		return StatusFollowUp, true
	default:
		return "", false
	}
}

// Validation errors.
var (
	ErrUnknownActionKind = errors.New("unknown action kind")
	ErrNoLeads           = errors.New("action targets no leads")
	ErrEmptyNote         = errors.New("note text is empty")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrMissingAssignee   = errors.New("assignee is required")
	ErrMissingActionID   = errors.New("action id is required")
)

// Action is a write request against one or more leads.
type Action struct {
	ID       string     `json:"id"`
	Kind     ActionKind `json:"kind"`
	LeadIDs  []string   `json:"lead_ids"`
	Note     string     `json:"note,omitempty"`
	Author   string     `json:"author,omitempty"`
	Status   Status     `json:"status,omitempty"`
	Assignee string     `json:"assignee,omitempty"`
	At       time.Time  `json:"at"`
}

// Validate checks the action shape. It does not check lead existence.
func (a Action) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrMissingActionID
	}
	if !a.Kind.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownActionKind, a.Kind)
	}
	if len(a.LeadIDs) == 0 {
		return ErrNoLeads
	}
	for _, id := range a.LeadIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: blank lead id", ErrNoLeads)
		}
	}
	switch a.Kind {
	case ActionAddNote:
		if strings.TrimSpace(a.Note) == "" {
			return ErrEmptyNote
		}
	case ActionUpdateStatus:
		if !a.Status.Known() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
		}
	case ActionAssign:
		if strings.TrimSpace(a.Assignee) == "" {
			return ErrMissingAssignee
		}
	}
	return nil
}
