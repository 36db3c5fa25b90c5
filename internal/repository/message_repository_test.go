package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMessageRepository(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewMessageRepository(tdb.Database)
	ctx := context.Background()

	seed := func(t *testing.T, channelID primitive.ObjectID, n int) []models.Message {
		t.Helper()
		out := make([]models.Message, 0, n)
		for i := 0; i < n; i++ {
			m := &models.Message{
				ChannelID: channelID,
				SenderID:  primitive.NewObjectID(),
				Content:   fmt.Sprintf("m%d", i),
				Status:    models.MessageStatusDelivered,
			}
			require.NoError(t, repo.Create(ctx, m))
			out = append(out, *m)
			time.Sleep(2 * time.Millisecond)
		}
		return out
	}

	contents := func(ms []models.Message) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Content
		}
		return out
	}

	t.Run("returns the newest messages in chronological order", func(t *testing.T) {
		tdb.ClearCollection(t, "messages")
		channelID := primitive.NewObjectID()
		seed(t, channelID, 5)

		got, err := repo.FindByChannelID(ctx, channelID, models.MessageListOptions{Limit: 3})

		require.NoError(t, err)
		assert.Equal(t, []string{"m2", "m3", "m4"}, contents(got))
	})

	t.Run("before and after cursors", func(t *testing.T) {
		tdb.ClearCollection(t, "messages")
		channelID := primitive.NewObjectID()
		msgs := seed(t, channelID, 5)

		before, err := repo.FindByChannelID(ctx, channelID, models.MessageListOptions{Limit: 2, Before: &msgs[3].ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"m1", "m2"}, contents(before))

		after, err := repo.FindByChannelID(ctx, channelID, models.MessageListOptions{Limit: 2, After: &msgs[1].ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"m2", "m3"}, contents(after))

		unknown := primitive.NewObjectID()
		all, err := repo.FindByChannelID(ctx, channelID, models.MessageListOptions{Before: &unknown})
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("pending messages stay hidden until delivered", func(t *testing.T) {
		tdb.ClearCollection(t, "messages")
		channelID := primitive.NewObjectID()
		due := time.Now().Add(-time.Minute)
		later := time.Now().Add(time.Hour)

		pending := &models.Message{ChannelID: channelID, Content: "due", Status: models.MessageStatusPending, ScheduledFor: &due}
		future := &models.Message{ChannelID: channelID, Content: "future", Status: models.MessageStatusPending, ScheduledFor: &later}
		require.NoError(t, repo.Create(ctx, pending))
		require.NoError(t, repo.Create(ctx, future))

		visible, err := repo.FindByChannelID(ctx, channelID, models.MessageListOptions{})
		require.NoError(t, err)
		assert.Empty(t, visible)

		dueMsgs, err := repo.FindDueScheduled(ctx, time.Now(), 10)
		require.NoError(t, err)
		require.Len(t, dueMsgs, 1)
		assert.Equal(t, pending.ID, dueMsgs[0].ID)

		ok, err := repo.MarkDelivered(ctx, pending.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.MarkDelivered(ctx, pending.ID)
		require.NoError(t, err)
		assert.False(t, ok, "second release is a no-op")

		visible, err = repo.FindByChannelID(ctx, channelID, models.MessageListOptions{})
		require.NoError(t, err)
		assert.Len(t, visible, 1)
	})

	t.Run("counts per channel", func(t *testing.T) {
		tdb.ClearCollection(t, "messages")
		c1, c2, c3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		seed(t, c1, 2)
		seed(t, c2, 1)

		counts, err := repo.CountByChannelIDs(ctx, []primitive.ObjectID{c1, c2, c3})

		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[c1])
		assert.Equal(t, int64(1), counts[c2])
		assert.Zero(t, counts[c3])
	})

	t.Run("updates content and deletes", func(t *testing.T) {
		tdb.ClearCollection(t, "messages")
		channelID := primitive.NewObjectID()
		msgs := seed(t, channelID, 1)

		updated, err := repo.UpdateContent(ctx, msgs[0].ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)

		require.NoError(t, repo.Delete(ctx, msgs[0].ID))
		_, err = repo.FindByID(ctx, msgs[0].ID)
		assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

		_, err = repo.UpdateContent(ctx, msgs[0].ID, "again")
		assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
	})

	t.Run("bulk deletes by channel and team", func(t *testing.T) {
		tdb.ClearCollection(t, "messages")
		teamID := primitive.NewObjectID()
		c1, c2 := primitive.NewObjectID(), primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, &models.Message{ChannelID: c1, TeamID: teamID, Status: models.MessageStatusDelivered}))
		require.NoError(t, repo.Create(ctx, &models.Message{ChannelID: c2, TeamID: teamID, Status: models.MessageStatusDelivered}))

		require.NoError(t, repo.DeleteAllByChannelID(ctx, c1))
		counts, err := repo.CountByChannelIDs(ctx, []primitive.ObjectID{c1, c2})
		require.NoError(t, err)
		assert.Zero(t, counts[c1])
		assert.Equal(t, int64(1), counts[c2])

		require.NoError(t, repo.DeleteAllByTeamID(ctx, teamID))
		counts, err = repo.CountByChannelIDs(ctx, []primitive.ObjectID{c2})
		require.NoError(t, err)
		assert.Zero(t, counts[c2])
	})
}
