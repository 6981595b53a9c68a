// Package notify delivers the outbound side effects of applied actions:
// broker events and campaign email.
package notify

import (
	"context"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
)

// Event is published once per lead touched by an applied action.
type Event struct {
	ActionID string           `json:"action_id"`
	Kind     model.ActionKind `json:"kind"`
	LeadID   string           `json:"lead_id"`
	Status   model.Status     `json:"status,omitempty"`
	Assignee string           `json:"assignee,omitempty"`
	Note     string           `json:"note,omitempty"`
	Author   string           `json:"author,omitempty"`
	At       time.Time        `json:"at"`
}

// Publisher sends events to collaborators.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Mailer sends the campaign email to a lead.
type Mailer interface {
	SendCampaign(ctx context.Context, lead model.Lead) error
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// NopMailer drops email.
type NopMailer struct{}

func (NopMailer) SendCampaign(context.Context, model.Lead) error { return nil }
