package queue

import (
	"errors"
	"log/slog"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier fans a notification out to recipients.
type Notifier interface {
	Notify(recipients []primitive.ObjectID, notificationType models.NotificationType, content string) error
}

// Dispatcher enqueues one job per recipient.
type Dispatcher struct {
	queue Queue
}

// NewDispatcher creates a Dispatcher on top of queue.
func NewDispatcher(queue Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

var _ Notifier = (*Dispatcher)(nil)

// Notify enqueues a job for every non-zero recipient. Recipients after the
// first rejected one are skipped and ErrNotificationQueueFull is returned.
func (d *Dispatcher) Notify(recipients []primitive.ObjectID, notificationType models.NotificationType, content string) error {
	for _, userID := range recipients {
		if userID.IsZero() {
			continue
		}
		err := d.queue.Enqueue(models.NotificationJob{UserID: userID, Type: notificationType, Content: content})
		if err == nil {
			continue
		}
		slog.Warn("notification not queued", "user_id", userID.Hex(), "type", notificationType, "error", err)
		if errors.Is(err, ErrQueueFull) {
			return apperrors.ErrNotificationQueueFull
		}
		return err
	}
	return nil
}
