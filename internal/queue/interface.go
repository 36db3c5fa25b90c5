package queue

import (
	"context"
	"errors"

	"teamwork/internal/models"
)

//go:generate mockgen -destination=mocks/mock_queue.go -package=mocks teamwork/internal/queue Queue,Notifier

// Queue errors. The Dispatcher translates ErrQueueFull into
// apperrors.ErrNotificationQueueFull for callers outside the package.
var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Queue buffers notification jobs between services and the Processor.
type Queue interface {
	// Enqueue adds a job without blocking. A full queue returns ErrQueueFull.
	Enqueue(job models.NotificationJob) error
	// Dequeue blocks until a job is available, ctx ends or the queue closes.
	Dequeue(ctx context.Context) (models.NotificationJob, error)
	Close()
	Len() int
	Capacity() int
}

var _ Queue = (*MemoryQueue)(nil)
