package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/fixtures"
)

func newSeededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(context.Background(), fixtures.Leads(), WithDashboardMetrics(fixtures.Metrics()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStore_LoadKeepsSeedOrder(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	if n := s.Count(ctx); n != 6 {
		t.Fatalf("expected 6 leads, got %d", n)
	}
	leads, err := s.LoadLeads(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, l := range leads {
		if want := fmt.Sprint(i + 1); l.ID != want {
			t.Errorf("position %d: expected id %s, got %s", i, want, l.ID)
		}
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	leads, _ := s.LoadLeads(ctx)
	leads[0].FirstName = "Mutated"
	leads[0].Activities[0].Description = "mutated"

	again, _ := s.FindByID(ctx, "1")
	if again.FirstName != "John" {
		t.Errorf("store state aliased through LoadLeads: %s", again.FirstName)
	}
	if again.Activities[0].Description == "mutated" {
		t.Error("activities aliased through LoadLeads")
	}

	m, _ := s.Metrics(ctx)
	m.TopSources[0].Count = -1
	m2, _ := s.Metrics(ctx)
	if m2.TopSources[0].Count != 52 {
		t.Errorf("metrics aliased: %d", m2.TopSources[0].Count)
	}
}

func TestMemoryStore_FindByIDNotFound(t *testing.T) {
	s := newSeededStore(t)
	_, err := s.FindByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_SaveLead(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	l, _ := s.FindByID(ctx, "2")
	l.Status = model.StatusContacted
	if err := s.SaveLead(ctx, l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leads, _ := s.LoadLeads(ctx)
	if leads[1].ID != "2" || leads[1].Status != model.StatusContacted {
		t.Errorf("expected lead 2 replaced in place, got %s/%s", leads[1].ID, leads[1].Status)
	}

	if err := s.SaveLead(ctx, model.Lead{ID: "7", FirstName: "New"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := s.Count(ctx); n != 7 {
		t.Errorf("expected 7 leads after append, got %d", n)
	}
	leads, _ = s.LoadLeads(ctx)
	if leads[6].ID != "7" {
		t.Errorf("expected new lead appended last, got %s", leads[6].ID)
	}

	if err := s.SaveLead(ctx, model.Lead{ID: " "}); !errors.Is(err, ErrInvalidLead) {
		t.Errorf("expected ErrInvalidLead, got %v", err)
	}
}

func TestMemoryStore_SaveLeadKeepsActivities(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	stale, _ := s.FindByID(ctx, "2")
	at := stale.LastContact.Add(72 * time.Hour)
	if err := s.AppendActivity(ctx, "2", model.Activity{ID: "late", Type: model.ActivityNote, Timestamp: at}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stale.Status = model.StatusContacted
	stale.Activities = nil
	if err := s.SaveLead(ctx, stale); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := s.FindByID(ctx, "2")
	if got.Status != model.StatusContacted {
		t.Errorf("expected status saved, got %s", got.Status)
	}
	if len(got.Activities) != 2 || got.Activities[1].ID != "late" {
		t.Errorf("stale save dropped activities: %+v", got.Activities)
	}
	if !got.LastContact.Equal(at) {
		t.Errorf("last contact moved backwards to %v", got.LastContact)
	}
}

func TestMemoryStore_UpdateLead(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	err := s.UpdateLead(ctx, "3", func(l *model.Lead) error {
		l.AssignedTo = "Mike Wilson"
		l.ID = "other"
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := s.FindByID(ctx, "3")
	if got.AssignedTo != "Mike Wilson" {
		t.Errorf("expected owner updated, got %q", got.AssignedTo)
	}
	if n := s.Count(ctx); n != 6 {
		t.Errorf("id change leaked into the store: %d leads", n)
	}

	stop := errors.New("stop")
	if err := s.UpdateLead(ctx, "3", func(l *model.Lead) error {
		l.AssignedTo = "nobody"
		return stop
	}); !errors.Is(err, stop) {
		t.Errorf("expected fn error, got %v", err)
	}
	if got, _ := s.FindByID(ctx, "3"); got.AssignedTo != "Mike Wilson" {
		t.Errorf("aborted update was stored: %q", got.AssignedTo)
	}

	if err := s.UpdateLead(ctx, "missing", func(*model.Lead) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = s.UpdateLead(ctx, "4", func(l *model.Lead) error {
					l.Score++
					return nil
				})
			}
		}()
	}
	wg.Wait()
	if got, _ := s.FindByID(ctx, "4"); got.Score != fixtures.Leads()[3].Score+8*50 {
		t.Errorf("lost updates: score %d", got.Score)
	}
}

func TestMemoryStore_AppendActivity(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	before, _ := s.FindByID(ctx, "2")
	at := before.LastContact.Add(time.Hour)
	err := s.AppendActivity(ctx, "2", model.Activity{ID: "n1", Type: model.ActivityNote, Description: "called", Timestamp: at})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := s.FindByID(ctx, "2")
	if len(after.Activities) != 2 || after.Activities[1].ID != "n1" {
		t.Fatalf("expected activity appended last, got %+v", after.Activities)
	}
	if !after.LastContact.Equal(at) {
		t.Errorf("expected last contact %v, got %v", at, after.LastContact)
	}
	if len(before.Activities) != 1 {
		t.Error("earlier copy observed the append")
	}

	older := model.Activity{ID: "n2", Type: model.ActivityNote, Timestamp: at.Add(-48 * time.Hour)}
	_ = s.AppendActivity(ctx, "2", older)
	again, _ := s.FindByID(ctx, "2")
	if !again.LastContact.Equal(at) {
		t.Errorf("last contact moved backwards to %v", again.LastContact)
	}

	if err := s.AppendActivity(ctx, "missing", older); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = s.AppendActivity(ctx, "1", model.Activity{ID: fmt.Sprintf("%d-%d", w, i), Timestamp: time.Now()})
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				leads, _ := s.LoadLeads(ctx)
				if len(leads) != 6 {
					t.Errorf("unexpected lead count %d", len(leads))
				}
			}
		}()
	}
	wg.Wait()

	l, _ := s.FindByID(ctx, "1")
	if got := len(l.Activities); got != 2+8*50 {
		t.Errorf("expected %d activities, got %d", 2+8*50, got)
	}
}

func TestMemoryStore_DuplicateSeedIDsCollapse(t *testing.T) {
	leads := []model.Lead{{ID: "a", FirstName: "one"}, {ID: "b"}, {ID: "a", FirstName: "two"}}
	s := NewMemoryStore(context.Background(), leads, WithMetricsUpdateInterval(time.Millisecond))
	defer func() { _ = s.Close() }()

	got, _ := s.LoadLeads(context.Background())
	if len(got) != 2 || got[0].FirstName != "two" {
		t.Errorf("expected later duplicate to replace in place, got %+v", got)
	}
	// Close is idempotent.
	_ = s.Close()
}
