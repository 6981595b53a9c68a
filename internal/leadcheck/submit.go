package leadcheck

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/okian/leadboard/pkg/logger"
)

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeBacklogged
	outcomeRejected
	outcomeFailed
)

// submitNotes posts every note twice with a worker pool. The second post of
// an accepted note must come back as a duplicate.
func submitNotes(ctx context.Context, client *HTTPClient, workers int, jobs []noteJob) (SubmitStats, int) {
	logger.Get().Info(ctx, "submitting notes", logger.Int("notes", len(jobs)), logger.Int("workers", workers))

	var (
		counts     [outcomeFailed + 1]atomic.Int64
		violations atomic.Int64
		wg         sync.WaitGroup
	)
	if workers < 1 {
		workers = 1
	}

	jobChan := make(chan noteJob, workers*WorkerChannelMultiplier)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				first := submitNote(ctx, client, job)
				counts[first].Add(1)
				if first != outcomeAccepted && first != outcomeDuplicate {
					continue
				}
				second := submitNote(ctx, client, job)
				counts[second].Add(1)
				if second != outcomeDuplicate {
					violations.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()
	wg.Wait()

	stats := SubmitStats{
		Generated:  len(jobs),
		Accepted:   int(counts[outcomeAccepted].Load()),
		Duplicate:  int(counts[outcomeDuplicate].Load()),
		Backlogged: int(counts[outcomeBacklogged].Load()),
		Rejected:   int(counts[outcomeRejected].Load()),
		Failed:     int(counts[outcomeFailed].Load()),
	}
	stats.Submitted = stats.Accepted + stats.Duplicate + stats.Backlogged + stats.Rejected + stats.Failed

	logger.Get().Info(ctx, "note submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("backlogged", stats.Backlogged),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
	return stats, int(violations.Load())
}

// submitNote posts one note and classifies the answer.
func submitNote(ctx context.Context, client *HTTPClient, job noteJob) outcome {
	resp, err := client.Post(ctx, "/leads/"+job.LeadID+"/notes", job.Body)
	if err != nil {
		return outcomeFailed
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed
	}

	var ack ackResponse
	switch {
	case resp.StatusCode == StatusAccepted:
		return outcomeAccepted
	case resp.StatusCode == StatusOK:
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return outcomeDuplicate
		}
		return outcomeFailed
	case resp.StatusCode == StatusTooManyRequests:
		return outcomeBacklogged
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
