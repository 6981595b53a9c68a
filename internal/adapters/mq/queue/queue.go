// Package queue buffers accepted lead actions between the HTTP layer and the
// worker pool.
package queue

import (
	"context"
	"sync"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Action is the payload flowing through the queue.
type Action = model.Action

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue returns false when the queue is full, closed or ctx is done.
	Enqueue(ctx context.Context, a Action) bool

	// Dequeue returns a channel that is closed after the queue is closed
	// and drained.
	Dequeue(ctx context.Context) <-chan Action

	Len(ctx context.Context) int
	Cap() int

	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	actions  chan Action
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.actions = make(chan Action, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.publishSize()
	return q
}

// Enqueue never blocks.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Action) bool { //nolint:gocritic // hugeParam: channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		metrics.RecordQueueRejected()
		return false
	}
	select {
	case q.actions <- a:
		metrics.RecordQueueEnqueue()
		q.publishSize()
		return true
	default:
		metrics.RecordQueueRejected()
		return false
	}
}

// Dequeue forwards queued actions until the queue is drained or ctx is done.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Action {
	out := make(chan Action)
	go func() {
		defer close(out)
		for a := range q.actions {
			select {
			case out <- a:
				q.publishSize()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of waiting actions.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.actions)
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close stops accepting actions. Already queued actions can still be dequeued.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.actions)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) publishSize() {
	size := len(q.actions)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
