// Package repository defines the lead store interface and its in-memory and
// Postgres implementations.
package repository

import (
	"context"

	"github.com/okian/leadboard/internal/domain/model"
)

// Repository provides read/write access to leads and the dashboard snapshot.
type Repository interface {
	// LoadLeads returns every lead in display order. The result never
	// aliases store state.
	LoadLeads(ctx context.Context) ([]model.Lead, error)

	// FindByID returns ErrNotFound if no lead has the id.
	FindByID(ctx context.Context, id string) (model.Lead, error)

	// SaveLead replaces the lead with the same id or appends a new one.
	// An existing lead keeps its stored activities and the later of the
	// two last-contact instants; activities only grow through
	// AppendActivity.
	SaveLead(ctx context.Context, lead model.Lead) error

	// UpdateLead applies fn to the current version of the lead while no
	// other write to it can interleave, then stores the result with
	// SaveLead semantics. An error from fn aborts the update.
	UpdateLead(ctx context.Context, id string, fn func(*model.Lead) error) error

	// AppendActivity adds an activity to a lead and moves its last contact
	// forward to the activity timestamp.
	AppendActivity(ctx context.Context, leadID string, activity model.Activity) error

	// Metrics returns the dashboard snapshot.
	Metrics(ctx context.Context) (model.DashboardMetrics, error)

	// Count returns the number of stored leads.
	Count(ctx context.Context) int
}
