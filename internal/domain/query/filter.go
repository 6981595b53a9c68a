// Package query implements the lead query engine: filtering, overdue
// detection, grouping and summary statistics over an in-memory lead slice.
//
// Every function is pure. Inputs are never mutated, results preserve the
// relative order of the input and no function reads the wall clock.
package query

import (
	"strings"

	"github.com/okian/leadboard/internal/domain/model"
)

// All is the filter sentinel that disables an axis.
const All = "all"

// Criteria selects leads. An empty field or All (any case) disables that axis.
type Criteria struct {
	Query      string `json:"q"`
	Status     string `json:"status"`
	Source     string `json:"source"`
	AssignedTo string `json:"assigned_to"`
}

// Empty reports whether no axis is active.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Query) == "" &&
		!active(c.Status) && !active(c.Source) && !active(c.AssignedTo)
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, All)
}

// Filter returns the leads matching every active axis of c.
//
// The query matches case-insensitively as a substring of first name,
// last name, email or interested vehicle. Status, source and owner compare
// by exact equality.
func Filter(leads []model.Lead, c Criteria) []model.Lead {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		if q != "" && !matchesQuery(l, q) {
			continue
		}
		if active(c.Status) && string(l.Status) != c.Status {
			continue
		}
		if active(c.Source) && string(l.Source) != c.Source {
			continue
		}
		if active(c.AssignedTo) && l.AssignedTo != c.AssignedTo {
			continue
		}
		out = append(out, l)
	}
	return out
}

// q must already be lower-cased.
func matchesQuery(l model.Lead, q string) bool {
	for _, f := range [...]string{l.FirstName, l.LastName, l.Email, l.InterestedVehicle} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
