// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Unassigned is the owner placeholder used for leads nobody works yet.
const Unassigned = "Unassigned"

// Lead is a sales prospect tracked through the qualification funnel.
type Lead struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Source            Source     `json:"source"`
	Status            Status     `json:"status"`
	Priority          Priority   `json:"priority"`
	InterestedVehicle string     `json:"interested_vehicle"`
	Budget            string     `json:"budget"`
	AssignedTo        string     `json:"assigned_to"`
	CreatedAt         time.Time  `json:"created_at"`
	LastContact       time.Time  `json:"last_contact"`
	Notes             string     `json:"notes,omitempty"`
	Score             int        `json:"score"`
	Activities        []Activity `json:"activities"`
}

// Activity is one interaction event attached to a lead.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	PerformedBy string       `json:"performed_by"`
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// Unassigned reports whether nobody owns the lead.
func (l Lead) Unassigned() bool {
	owner := strings.TrimSpace(l.AssignedTo)
	return owner == "" || owner == Unassigned
}

// Clone returns a copy that shares no memory with l.
func (l Lead) Clone() Lead {
	out := l
	if l.Activities != nil {
		out.Activities = make([]Activity, len(l.Activities))
		copy(out.Activities, l.Activities)
	}
	return out
}

// CloneLeads deep-copies a lead slice, preserving order.
func CloneLeads(leads []Lead) []Lead {
	out := make([]Lead, len(leads))
	for i := range leads {
		out[i] = leads[i].Clone()
	}
	return out
}
