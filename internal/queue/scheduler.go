package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultPollInterval is how often the scheduler looks for due messages.
	DefaultPollInterval = 5 * time.Second
	// ReleaseBatchSize caps the messages released per poll.
	ReleaseBatchSize = 100

	// DefaultDueSoonInterval is how often the scheduler sweeps for tasks
	// nearing their due date.
	DefaultDueSoonInterval = time.Minute
	// DefaultDueSoonWindow is how far ahead a due date counts as soon.
	DefaultDueSoonWindow = 24 * time.Hour
	// DueSoonBatchSize caps the reminders sent per sweep.
	DueSoonBatchSize = 100
)

// ScheduledMessageStore finds and releases scheduled messages.
type ScheduledMessageStore interface {
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Message, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// DueTaskStore finds tasks nearing their due date and claims their reminder.
type DueTaskStore interface {
	FindDueSoon(ctx context.Context, from, to time.Time, limit int) ([]models.Task, error)
	MarkDueSoonNotified(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// MessagePublisher pushes message events to channel subscribers.
type MessagePublisher interface {
	Publish(channelID primitive.ObjectID, event models.MessageEvent)
}

// SchedulerConfig wires a Scheduler. Tasks and Notifier are optional; without
// them no due-soon sweep runs.
type SchedulerConfig struct {
	Messages  ScheduledMessageStore
	Publisher MessagePublisher
	Interval  time.Duration

	Tasks           DueTaskStore
	Notifier        Notifier
	DueSoonInterval time.Duration
	DueSoonWindow   time.Duration
}

// Scheduler releases pending scheduled messages once they are due and
// reminds assignees of tasks due soon.
type Scheduler struct {
	store     ScheduledMessageStore
	publisher MessagePublisher
	interval  time.Duration

	tasks         DueTaskStore
	notifier      Notifier
	dueSoonEvery  time.Duration
	dueSoonWindow time.Duration
	now           func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewScheduler creates a Scheduler from cfg, filling in default intervals.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.DueSoonInterval <= 0 {
		cfg.DueSoonInterval = DefaultDueSoonInterval
	}
	if cfg.DueSoonWindow <= 0 {
		cfg.DueSoonWindow = DefaultDueSoonWindow
	}
	return &Scheduler{
		store:         cfg.Messages,
		publisher:     cfg.Publisher,
		interval:      cfg.Interval,
		tasks:         cfg.Tasks,
		notifier:      cfg.Notifier,
		dueSoonEvery:  cfg.DueSoonInterval,
		dueSoonWindow: cfg.DueSoonWindow,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs the polling loop until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		var dueSoon <-chan time.Time
		if s.tasks != nil && s.notifier != nil {
			t := time.NewTicker(s.dueSoonEvery)
			defer t.Stop()
			dueSoon = t.C
		}

		slog.Info("message scheduler started", "interval", s.interval, "due_soon_interval", s.dueSoonEvery)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				if _, err := s.ReleaseDue(ctx); err != nil {
					slog.Error("failed to release scheduled messages", "error", err)
				}
			case <-dueSoon:
				if _, err := s.NotifyDueSoon(ctx); err != nil {
					slog.Error("failed to send due soon reminders", "error", err)
				}
			}
		}
	}()
}

// Stop ends the polling loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
	slog.Info("message scheduler stopped")
}

// ReleaseDue marks every due message delivered and publishes it.
// A message claimed concurrently by another instance is skipped.
func (s *Scheduler) ReleaseDue(ctx context.Context) (int, error) {
	messages, err := s.store.FindDueScheduled(ctx, s.now(), ReleaseBatchSize)
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range messages {
		msg := messages[i]
		ok, err := s.store.MarkDelivered(ctx, msg.ID)
		if err != nil {
			return released, err
		}
		if !ok {
			continue
		}
		msg.Status = models.MessageStatusDelivered
		if s.publisher != nil {
			s.publisher.Publish(msg.ChannelID, models.MessageEvent{Type: models.MessageEventCreated, Message: &msg})
		}
		released++
	}

	if released > 0 {
		slog.Info("released scheduled messages", "count", released)
	}
	return released, nil
}

// NotifyDueSoon reminds the assignee of every open task due within the
// window. A task is claimed before its reminder is queued and is reminded at
// most once per due date.
func (s *Scheduler) NotifyDueSoon(ctx context.Context) (int, error) {
	if s.tasks == nil || s.notifier == nil {
		return 0, nil
	}

	now := s.now()
	tasks, err := s.tasks.FindDueSoon(ctx, now, now.Add(s.dueSoonWindow), DueSoonBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, task := range tasks {
		if task.AssignedTo == nil {
			continue
		}
		ok, err := s.tasks.MarkDueSoonNotified(ctx, task.ID, now)
		if err != nil {
			return sent, err
		}
		if !ok {
			continue
		}
		content := fmt.Sprintf("Your task %q is due soon", task.Title)
		if err := s.notifier.Notify([]primitive.ObjectID{*task.AssignedTo}, models.NotificationTaskDueSoon, content); err != nil {
			slog.Warn("due soon reminder not queued", "task_id", task.ID.Hex(), "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		slog.Info("sent due soon reminders", "count", sent)
	}
	return sent, nil
}
