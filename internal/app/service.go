// Package service binds the lead store, the query engine and the action
// pipeline into the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/leadboard/internal/adapters/mq/queue"
	"github.com/okian/leadboard/internal/adapters/mq/worker"
	"github.com/okian/leadboard/internal/adapters/notify"
	"github.com/okian/leadboard/internal/adapters/repository"
	"github.com/okian/leadboard/internal/domain/dedupe"
	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/domain/query"
	"github.com/okian/leadboard/internal/fixtures"
	"github.com/okian/leadboard/pkg/logger"
	"github.com/okian/leadboard/pkg/metrics"
)

// Receipt acknowledges a submitted action.
type Receipt struct {
	ActionID  string `json:"action_id"`
	Duplicate bool   `json:"duplicate"`
}

// LeadStats is the summary block plus the overdue count at the service clock.
type LeadStats struct {
	query.Summary
	Overdue int `json:"overdue"`
}

// Service implements the API dependencies for the lead dashboard.
type Service struct {
	mu sync.RWMutex

	repo      repository.Repository
	deduper   dedupe.Deduper
	queue     queue.Queue
	pool      *worker.Pool
	applier   worker.Applier
	publisher notify.Publisher
	mailer    notify.Mailer

	workerCount int
	queueSize   int
	dedupeSize  int
	maxTopLimit int
	writeMode   string
	policy      query.OverduePolicy
	now         func() time.Time

	started  bool
	ownsRepo bool
	logger   logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  10_000,
		maxTopLimit: 100,
		writeMode:   WriteModeLog,
		policy:      query.DefaultOverduePolicy(),
		now:         time.Now,
		publisher:   notify.NopPublisher{},
		mailer:      notify.NopMailer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.repo == nil {
		seed := fixtures.Default()
		s.repo = repository.NewMemoryStore(context.Background(), seed.Leads,
			repository.WithDashboardMetrics(seed.Metrics))
		s.ownsRepo = true
	}
	return s
}

// Start creates the action pipeline and launches the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	applier := s.applier
	if applier == nil {
		switch s.writeMode {
		case WriteModeLog, "":
			applier = NewLogApplier(s.logger)
		case WriteModeApply:
			applier = NewStoreApplier(s.repo, s.publisher, s.mailer, s.logger)
		default:
			return fmt.Errorf("unknown write mode %q", s.writeMode)
		}
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, applier)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "lead service started",
		logger.String("write_mode", s.writeMode),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("leads", s.repo.Count(ctx)),
	)
	return nil
}

// Stop drains the action queue and stops the workers. A store built by New
// is closed as well; one passed with WithRepository is left to the caller.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	err := s.pool.Shutdown(ctx)
	if closer, ok := s.repo.(interface{ Close() error }); ok && s.ownsRepo {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.started = false
	s.logger.Info(ctx, "lead service stopped")
	return err
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time { return s.now() }

// MaxTopLimit returns the largest accepted hot-lead board size.
func (s *Service) MaxTopLimit() int { return s.maxTopLimit }

func observe(op string, start time.Time) {
	metrics.RecordQuery(op, float64(time.Since(start).Microseconds())/1000)
}

// Leads returns the leads matching c. Status and source values are
// canonicalised first, so "qualified" selects Qualified leads.
func (s *Service) Leads(ctx context.Context, c query.Criteria) ([]model.Lead, error) {
	defer observe("filter", time.Now())

	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(leads, canonical(c)), nil
}

func canonical(c query.Criteria) query.Criteria {
	if st, ok := model.ParseStatus(c.Status); ok {
		c.Status = string(st)
	}
	if src, ok := model.ParseSource(c.Source); ok {
		c.Source = string(src)
	}
	c.AssignedTo = strings.TrimSpace(c.AssignedTo)
	return c
}

// Lead returns one lead or repository.ErrNotFound.
func (s *Service) Lead(ctx context.Context, id string) (model.Lead, error) {
	defer observe("find", time.Now())
	return s.repo.FindByID(ctx, id)
}

// Overdue returns the leads needing attention at now; a zero now means the
// service clock.
func (s *Service) Overdue(ctx context.Context, now time.Time) ([]model.Lead, error) {
	defer observe("overdue", time.Now())

	if now.IsZero() {
		now = s.now()
	}
	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	out := s.policy.Overdue(leads, now)
	metrics.UpdateLeadsOverdue(len(out))
	return out, nil
}

// Top returns the n highest scoring leads, 1 <= n <= MaxTopLimit.
func (s *Service) Top(ctx context.Context, n int) ([]model.Lead, error) {
	defer observe("top", time.Now())

	if n < 1 || n > s.maxTopLimit {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, n, s.maxTopLimit)
	}
	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	return query.TopByScore(leads, n), nil
}

// Assignees lists the distinct lead owners.
func (s *Service) Assignees(ctx context.Context) ([]string, error) {
	defer observe("assignees", time.Now())

	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	return query.Assignees(leads), nil
}

// Stats returns the summary statistics of all leads.
func (s *Service) Stats(ctx context.Context) (LeadStats, error) {
	defer observe("summary", time.Now())

	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return LeadStats{}, err
	}
	return LeadStats{
		Summary: query.Summarize(leads),
		Overdue: len(s.policy.Overdue(leads, s.now())),
	}, nil
}

// Distribution groups all leads by one of the fields in query.Selectors.
func (s *Service) Distribution(ctx context.Context, field string) ([]query.Group[string], error) {
	defer observe("aggregate", time.Now())

	sel, ok := query.Selectors[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	return query.AggregateBy(leads, sel), nil
}

// DashboardMetrics returns the dashboard snapshot.
func (s *Service) DashboardMetrics(ctx context.Context) (model.DashboardMetrics, error) {
	return s.repo.Metrics(ctx)
}

// SourceConversion derives per-source conversion estimates from the snapshot.
func (s *Service) SourceConversion(ctx context.Context) ([]query.SourceConversionRow, error) {
	defer observe("source_conversion", time.Now())

	m, err := s.repo.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	return query.SourceConversion(m.TopSources, m.ConversionRate), nil
}

// Submit validates an action and queues it once per action id. A missing id
// is generated and a zero At is stamped with the service clock.
func (s *Service) Submit(ctx context.Context, a model.Action) (Receipt, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Receipt{}, ErrNotStarted
	}

	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	if a.At.IsZero() {
		a.At = s.now().UTC()
	}
	if err := a.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	for _, id := range a.LeadIDs {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return Receipt{}, err
		}
	}

	if s.deduper.SeenAndRecord(ctx, a.ID) {
		metrics.RecordActionDuplicate()
		s.logger.Debug(ctx, "duplicate action", logger.String("action_id", a.ID))
		return Receipt{ActionID: a.ID, Duplicate: true}, nil
	}
	if !s.queue.Enqueue(ctx, a) {
		s.deduper.Unrecord(ctx, a.ID)
		return Receipt{}, fmt.Errorf("%w: %w", ErrBackpressure, queue.ErrFull)
	}
	metrics.RecordActionAccepted(string(a.Kind))
	return Receipt{ActionID: a.ID}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"write_mode":   s.writeMode,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
		"total_leads":  s.repo.Count(ctx),
	}
	if s.started {
		stats["queue_length"] = s.queue.Len(ctx)
		stats["dedupe_entries"] = s.deduper.Size()
	}
	return stats
}
