// Package pipeline moves recognition events from recognizer adapters to the
// per-session dispatchers. The queue is the only hand-off between the
// recognizer's callback context and the pipeline's own goroutines.
package pipeline

import (
	"context"
	"sync"
	"time"

	"live-translation-relay/internal/models"
)

// Queue is a concurrency-safe FIFO of recognition events. Safe for multiple
// producers and multiple consumers; recognizer callbacks only ever touch the
// queue, never session state.
type Queue struct {
	mu     sync.Mutex
	items  []models.RecognitionEvent
	signal chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		signal: make(chan struct{}, 1),
	}
}

// Put appends an event and wakes one waiting consumer.
func (q *Queue) Put(ev models.RecognitionEvent) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Poll removes and returns the oldest event. When the queue is empty it
// waits up to wait for a signal; returns false on timeout or context
// cancellation.
func (q *Queue) Poll(ctx context.Context, wait time.Duration) (models.RecognitionEvent, bool) {
	deadline := time.NewTimer(wait)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-deadline.C:
			return models.RecognitionEvent{}, false
		case <-ctx.Done():
			return models.RecognitionEvent{}, false
		}
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
