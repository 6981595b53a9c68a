package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/pkg/metrics"
)

// MemoryStore keeps leads in a slice guarded by a RWMutex, with an id index.
// Every value crossing its boundary is deep-copied.
type MemoryStore struct {
	mu      sync.RWMutex
	leads   []model.Lead
	byID    map[string]int
	metrics model.DashboardMetrics

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore builds a store seeded with leads, keeping their order.
// Later duplicates of an id replace the earlier entry in place.
func NewMemoryStore(ctx context.Context, leads []model.Lead, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]int, len(leads)),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, l := range leads {
		s.putLocked(l.Clone())
	}

	metrics.UpdateLeadsTotal(len(s.leads))
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemoryStore) putLocked(l model.Lead) {
	if i, ok := s.byID[l.ID]; ok {
		s.leads[i] = l
		return
	}
	s.byID[l.ID] = len(s.leads)
	s.leads = append(s.leads, l)
}

// mergeLocked stores l, keeping the stored activities and last contact of an
// existing lead.
func (s *MemoryStore) mergeLocked(l model.Lead) {
	if i, ok := s.byID[l.ID]; ok {
		cur := s.leads[i]
		l.Activities = cur.Activities
		if cur.LastContact.After(l.LastContact) {
			l.LastContact = cur.LastContact
		}
		s.leads[i] = l
		return
	}
	s.byID[l.ID] = len(s.leads)
	s.leads = append(s.leads, l)
}

// LoadLeads implements Repository.
func (s *MemoryStore) LoadLeads(_ context.Context) ([]model.Lead, error) {
	start := time.Now()
	defer observeQuery(start)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneLeads(s.leads), nil
}

// FindByID implements Repository.
func (s *MemoryStore) FindByID(_ context.Context, id string) (model.Lead, error) {
	start := time.Now()
	defer observeQuery(start)

	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.Lead{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.leads[i].Clone(), nil
}

// SaveLead implements Repository.
func (s *MemoryStore) SaveLead(_ context.Context, lead model.Lead) error {
	if strings.TrimSpace(lead.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidLead)
	}
	start := time.Now()
	defer observeUpdate(start)

	s.mu.Lock()
	s.mergeLocked(lead.Clone())
	n := len(s.leads)
	s.mu.Unlock()

	metrics.UpdateLeadsTotal(n)
	return nil
}

// UpdateLead implements Repository. fn runs under the store's write lock.
func (s *MemoryStore) UpdateLead(_ context.Context, id string, fn func(*model.Lead) error) error {
	start := time.Now()
	defer observeUpdate(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l := s.leads[i].Clone()
	if err := fn(&l); err != nil {
		return err
	}
	l.ID = id
	s.mergeLocked(l)
	return nil
}

// AppendActivity implements Repository.
func (s *MemoryStore) AppendActivity(_ context.Context, leadID string, a model.Activity) error {
	start := time.Now()
	defer observeUpdate(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[leadID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, leadID)
	}
	l := &s.leads[i]
	// Copy on write so clones handed out earlier never see the append.
	acts := make([]model.Activity, len(l.Activities), len(l.Activities)+1)
	copy(acts, l.Activities)
	l.Activities = append(acts, a)
	if a.Timestamp.After(l.LastContact) {
		l.LastContact = a.Timestamp
	}
	return nil
}

// Metrics implements Repository.
func (s *MemoryStore) Metrics(_ context.Context) (model.DashboardMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics.Clone(), nil
}

// Count implements Repository.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Done is closed once Close was called.
func (s *MemoryStore) Done() <-chan struct{} { return s.stopChan }

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateLeadsTotal(s.Count(ctx))
			}
		}
	}()
}

func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

func observeUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
}
