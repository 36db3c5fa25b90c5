package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"teamwork/internal/models"
)

const (
	// MaxRetries is the maximum number of delivery attempts for a notification.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 2 * time.Second
	// StoreTimeout bounds a single notification insert.
	StoreTimeout = 5 * time.Second
)

// NotificationStore persists delivered notifications.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Processor drains the notification queue with a pool of workers.
type Processor struct {
	queue        Queue
	store        NotificationStore
	workerCount  int
	retryDelay   time.Duration
	wg           sync.WaitGroup
	retries      sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewProcessor creates a new notification processor.
func NewProcessor(queue Queue, store NotificationStore, workerCount int) *Processor {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Processor{
		queue:       queue,
		store:       store,
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		shutdownCh:  make(chan struct{}),
	}
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	slog.Info("notification processor started", "workers", p.workerCount)
}

// Stop closes the queue and waits for workers to drain it.
// Jobs waiting on a retry delay are dropped.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	p.retries.Wait()
	slog.Info("notification processor stopped")
}

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				slog.Debug("notification worker shutting down", "worker", id)
				return
			}
			continue
		}
		p.processJob(ctx, job)
	}
}

func (p *Processor) processJob(ctx context.Context, job models.NotificationJob) {
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), StoreTimeout)
	defer cancel()

	notification := &models.Notification{
		UserID:  job.UserID,
		Type:    job.Type,
		Content: job.Content,
	}
	if err := p.store.Create(storeCtx, notification); err != nil {
		slog.Warn("notification delivery failed",
			"user_id", job.UserID.Hex(), "type", job.Type, "attempt", job.RetryCount+1, "error", err)
		p.handleFailure(job)
		return
	}

	slog.Debug("notification delivered", "user_id", job.UserID.Hex(), "type", job.Type)
}

func (p *Processor) handleFailure(job models.NotificationJob) {
	job.RetryCount++

	if job.RetryCount >= MaxRetries {
		slog.Error("notification dropped after max retries", "user_id", job.UserID.Hex(), "type", job.Type)
		return
	}

	delay := p.retryDelay * time.Duration(1<<uint(job.RetryCount-1))

	p.retries.Add(1)
	go func() {
		defer p.retries.Done()
		select {
		case <-p.shutdownCh:
			slog.Warn("shutdown during retry delay, notification dropped", "user_id", job.UserID.Hex(), "type", job.Type)
		case <-time.After(delay):
			if err := p.queue.Enqueue(job); err != nil {
				slog.Error("failed to re-enqueue notification", "user_id", job.UserID.Hex(), "error", err)
			}
		}
	}()
}
