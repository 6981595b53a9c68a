package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
)

func note(id string) Action {
	return model.Action{ID: id, Kind: model.ActionAddNote, LeadIDs: []string{"1"}, Note: "n"}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}
	if !q.Enqueue(ctx, note("a1")) {
		t.Fatal("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	a := <-q.Dequeue(ctx)
	if a.ID != "a1" {
		t.Errorf("expected a1, got %s", a.ID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Backpressure(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, note("a1")) || !q.Enqueue(ctx, note("a2")) {
		t.Fatal("expected enqueue to succeed")
	}

	done := make(chan bool)
	go func() { done <- q.Enqueue(ctx, note("a3")) }()
	select {
	case ok := <-done:
		if ok {
			t.Error("expected enqueue on full queue to fail")
		}
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	q.Enqueue(ctx, note("a1"))
	q.Enqueue(ctx, note("a2"))
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue closed")
	}
	if q.Enqueue(ctx, note("a3")) {
		t.Error("expected enqueue after close to fail")
	}

	var got []string
	for a := range q.Dequeue(ctx) {
		got = append(got, a.ID)
	}
	if fmt.Sprint(got) != "[a1 a2]" {
		t.Errorf("expected queued actions drained in order, got %v", got)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if q.Enqueue(ctx, note("a1")) {
		t.Error("expected enqueue with cancelled context to fail")
	}
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := 0; p < 10; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Enqueue(ctx, note(fmt.Sprintf("%d-%d", p, i)))
			}
		}(p)
	}
	wg.Wait()
	_ = q.Close()

	n := 0
	for range q.Dequeue(ctx) {
		n++
	}
	if n != 500 {
		t.Errorf("expected 500 actions, got %d", n)
	}
}
