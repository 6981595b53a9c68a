package query

import (
	"sort"

	"github.com/okian/leadboard/internal/domain/model"
)

// FindByID returns the first lead with the given id.
func FindByID(leads []model.Lead, id string) (model.Lead, bool) {
	for _, l := range leads {
		if l.ID == id {
			return l, true
		}
	}
	return model.Lead{}, false
}

// Assignees lists distinct non-blank owners in first-occurrence order.
func Assignees(leads []model.Lead) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range leads {
		if l.AssignedTo == "" {
			continue
		}
		if _, ok := seen[l.AssignedTo]; ok {
			continue
		}
		seen[l.AssignedTo] = struct{}{}
		out = append(out, l.AssignedTo)
	}
	return out
}

// TopByScore returns up to n leads by descending score. Equal scores keep
// their input order. n <= 0 yields an empty result.
func TopByScore(leads []model.Lead, n int) []model.Lead {
	if n <= 0 {
		return []model.Lead{}
	}
	out := make([]model.Lead, len(leads))
	copy(out, leads)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n < len(out) {
		out = out[:n]
	}
	return out
}
