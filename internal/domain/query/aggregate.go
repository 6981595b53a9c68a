package query

import "github.com/okian/leadboard/internal/domain/model"

// Group is one bucket of a group-count.
type Group[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// AggregateBy counts leads per key. Groups appear in order of first
// occurrence and their counts sum to len(leads).
func AggregateBy[K comparable](leads []model.Lead, key func(model.Lead) K) []Group[K] {
	idx := make(map[K]int)
	out := make([]Group[K], 0)
	for _, l := range leads {
		k := key(l)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Group[K]{Key: k})
		}
		out[i].Count++
	}
	return out
}

// ByStatus buckets unknown statuses as Unknown.
func ByStatus(l model.Lead) string { return string(l.Status.Bucket()) }

// BySource buckets unknown sources as Unknown.
func BySource(l model.Lead) string { return string(l.Source.Bucket()) }

// ByPriority buckets unknown priorities as Unknown.
func ByPriority(l model.Lead) string { return string(l.Priority.Bucket()) }

// ByAssignee groups by owner, folding blank owners into Unassigned.
func ByAssignee(l model.Lead) string {
	if l.Unassigned() {
		return model.Unassigned
	}
	return l.AssignedTo
}

// Selectors maps the field names accepted by the API to their key functions.
var Selectors = map[string]func(model.Lead) string{
	"status":      ByStatus,
	"source":      BySource,
	"priority":    ByPriority,
	"assigned_to": ByAssignee,
}
