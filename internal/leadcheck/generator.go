package leadcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/leadboard/pkg/logger"
)

var (
	noteTemplates = []string{
		"Left voicemail about test drive availability (check %d)",
		"Customer asked for updated financing options (check %d)",
		"Sent trade-in estimate follow-up (check %d)",
		"Confirmed showroom appointment (check %d)",
	}
	authors = []string{"Sarah Johnson", "Mike Wilson", "lead-check"}
)

// randomIndex returns a uniform index in [0,n) using crypto/rand.
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateNotes creates count notes spread over leadIDs, each with a fresh
// action id.
func generateNotes(ctx context.Context, count int, leadIDs []string) ([]noteJob, error) {
	if count > 0 && len(leadIDs) == 0 {
		return nil, fmt.Errorf("no leads to annotate")
	}
	logger.Get().Info(ctx, "generating notes", logger.Int("count", count), logger.Int("leads", len(leadIDs)))

	jobs := make([]noteJob, count)
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during note generation: %w", err)
		}
		jobs[i] = noteJob{
			LeadID: leadIDs[randomIndex(len(leadIDs))],
			Body: note{
				ActionID: uuid.NewString(),
				Note:     fmt.Sprintf(noteTemplates[randomIndex(len(noteTemplates))], i),
				Author:   authors[randomIndex(len(authors))],
			},
		}
	}
	return jobs, nil
}
