package query

import (
	"math"

	"github.com/okian/leadboard/internal/domain/model"
)

// Summary is the headline statistics block of the lead list.
type Summary struct {
	Total        int                  `json:"total"`
	AverageScore int                  `json:"average_score"`
	ByStatus     map[model.Status]int `json:"by_status"`
	Unmatched    int                  `json:"unmatched"`
	HighPriority int                  `json:"high_priority"`
	Unassigned   int                  `json:"unassigned"`
}

// Summarize computes the summary. Every known status has an entry even when
// its count is zero; leads outside the closed set are counted in Unmatched.
// The average score is rounded half away from zero and is 0 for no leads.
func Summarize(leads []model.Lead) Summary {
	s := Summary{
		Total:    len(leads),
		ByStatus: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, st := range model.Statuses {
		s.ByStatus[st] = 0
	}

	sum := 0
	for _, l := range leads {
		sum += l.Score
		if l.Status.Known() {
			s.ByStatus[l.Status]++
		} else {
			s.Unmatched++
		}
		if l.Priority == model.PriorityHigh {
			s.HighPriority++
		}
		if l.Unassigned() {
			s.Unassigned++
		}
	}
	if s.Total > 0 {
		s.AverageScore = int(math.Round(float64(sum) / float64(s.Total)))
	}
	return s
}
