// Package queue provides background delivery of notifications and
// scheduled messages.
package queue

import (
	"context"
	"sync"

	"teamwork/internal/models"
)

// MemoryQueue is a bounded FIFO of notification jobs backed by a channel.
// Jobs still buffered when the process exits are lost.
type MemoryQueue struct {
	mu     sync.RWMutex
	jobs   chan models.NotificationJob
	closed bool
}

// NewMemoryQueue returns a queue that holds at most capacity jobs.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan models.NotificationJob, capacity)}
}

// Enqueue never blocks. It fails with ErrQueueFull when the buffer is full
// and ErrQueueClosed after Close.
func (q *MemoryQueue) Enqueue(job models.NotificationJob) error {
	// Holding the read lock across the send keeps Close from closing the
	// channel underneath it.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks for the next job. Buffered jobs are still handed out after
// Close; ErrQueueClosed is returned once they are drained.
func (q *MemoryQueue) Dequeue(ctx context.Context) (models.NotificationJob, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return models.NotificationJob{}, ErrQueueClosed
		}
		return job, nil
	case <-ctx.Done():
		return models.NotificationJob{}, ctx.Err()
	}
}

// Close stops intake. It is safe to call more than once.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.jobs)
}

// Len reports how many jobs are buffered.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Capacity reports the buffer size.
func (q *MemoryQueue) Capacity() int {
	return cap(q.jobs)
}
