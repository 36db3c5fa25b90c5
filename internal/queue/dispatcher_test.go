package queue

import (
	"testing"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDispatcher_Notify(t *testing.T) {
	t.Run("enqueues one job per recipient", func(t *testing.T) {
		q := NewMemoryQueue(10)
		d := NewDispatcher(q)
		alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

		err := d.Notify([]primitive.ObjectID{alice, primitive.NilObjectID, bob}, models.NotificationProjectUpdated, `Project "Apollo" was updated`)

		require.NoError(t, err)
		require.Equal(t, 2, q.Len())
		first, _ := q.Dequeue(t.Context())
		second, _ := q.Dequeue(t.Context())
		assert.Equal(t, alice, first.UserID)
		assert.Equal(t, bob, second.UserID)
		assert.Equal(t, models.NotificationProjectUpdated, second.Type)
		assert.Equal(t, `Project "Apollo" was updated`, second.Content)
	})

	t.Run("no recipients is a no-op", func(t *testing.T) {
		q := NewMemoryQueue(1)

		assert.NoError(t, NewDispatcher(q).Notify(nil, models.NotificationTeamLeft, "bye"))
		assert.Equal(t, 0, q.Len())
	})

	t.Run("full queue", func(t *testing.T) {
		q := NewMemoryQueue(1)
		d := NewDispatcher(q)

		err := d.Notify([]primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}, models.NotificationTeamJoined, "hi")

		assert.ErrorIs(t, err, apperrors.ErrNotificationQueueFull)
		assert.Equal(t, 1, q.Len())
	})

	t.Run("closed queue", func(t *testing.T) {
		q := NewMemoryQueue(1)
		q.Close()

		err := NewDispatcher(q).Notify([]primitive.ObjectID{primitive.NewObjectID()}, models.NotificationTeamJoined, "hi")

		assert.ErrorIs(t, err, ErrQueueClosed)
	})
}
