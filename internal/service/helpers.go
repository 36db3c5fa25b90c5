package service

import (
	"context"
	"log/slog"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/queue"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreamCloser ends open channel event streams once the access behind them
// is gone. Implemented by realtime.Hub.
type StreamCloser interface {
	DisconnectMember(teamID, userID primitive.ObjectID) int
	DisconnectUser(userID primitive.ObjectID) int
	DisconnectChannel(channelID primitive.ObjectID) int
	DisconnectTeam(teamID primitive.ObjectID) int
}

func parseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInvalidID
	}
	return id, nil
}

// notify enqueues notifications without failing the calling operation.
func notify(ctx context.Context, n queue.Notifier, recipients []primitive.ObjectID, notificationType models.NotificationType, content string) {
	if n == nil || len(recipients) == 0 {
		return
	}
	if err := n.Notify(recipients, notificationType, content); err != nil {
		slog.WarnContext(ctx, "failed to enqueue notification",
			"type", notificationType,
			"recipients", len(recipients),
			"error", err,
		)
	}
}

// memberIDsExcept returns the user IDs of members, skipping the excluded ones.
func memberIDsExcept(members []models.TeamMember, exclude ...primitive.ObjectID) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		skip := false
		for _, e := range exclude {
			if m.UserID == e {
				skip = true
				break
			}
		}
		if !skip {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}
