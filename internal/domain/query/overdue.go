package query

import (
	"time"

	"github.com/okian/leadboard/internal/domain/model"
)

// Default overdue thresholds.
const (
	DefaultNewAfter      = 24 * time.Hour
	DefaultFollowUpAfter = 48 * time.Hour
)

// OverduePolicy holds the contact gaps after which a lead needs attention.
type OverduePolicy struct {
	NewAfter      time.Duration
	FollowUpAfter time.Duration
}

// DefaultOverduePolicy returns the 24h/48h policy.
func DefaultOverduePolicy() OverduePolicy {
	return OverduePolicy{NewAfter: DefaultNewAfter, FollowUpAfter: DefaultFollowUpAfter}
}

// IsOverdue reports whether l has waited strictly longer than its threshold.
// Only New and Follow Up leads can be overdue.
func (p OverduePolicy) IsOverdue(l model.Lead, now time.Time) bool {
	gap := now.Sub(l.LastContact)
	switch l.Status {
	case model.StatusNew:
		return gap > p.NewAfter
	case model.StatusFollowUp:
		return gap > p.FollowUpAfter
	default:
		return false
	}
}

// Overdue returns the leads the policy flags at now, in input order.
func (p OverduePolicy) Overdue(leads []model.Lead, now time.Time) []model.Lead {
	out := make([]model.Lead, 0)
	for _, l := range leads {
		if p.IsOverdue(l, now) {
			out = append(out, l)
		}
	}
	return out
}

// Overdue applies the default policy.
func Overdue(leads []model.Lead, now time.Time) []model.Lead {
	return DefaultOverduePolicy().Overdue(leads, now)
}
