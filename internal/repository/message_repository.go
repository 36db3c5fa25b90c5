package repository

import (
	"context"
	"errors"
	"time"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	FindByChannelID(ctx context.Context, channelID primitive.ObjectID, opts models.MessageListOptions) ([]models.Message, error)
	CountByChannelIDs(ctx context.Context, channelIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Message, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (bool, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllByChannelID(ctx context.Context, channelID primitive.ObjectID) error
	DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error
}

type messageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		collection: db.Collection("messages"),
	}
}

// Create inserts a new message.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	now := time.Now()
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// FindByID retrieves a message by ID.
func (r *messageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var message models.Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, err
	}

	return &message, nil
}

// FindByChannelID returns up to opts.Limit delivered messages of a channel
// in chronological order. Before and After name a message whose timestamp
// bounds the window; an unknown cursor is ignored. Without After the newest
// messages are returned.
func (r *messageRepository) FindByChannelID(ctx context.Context, channelID primitive.ObjectID, opts models.MessageListOptions) ([]models.Message, error) {
	filter := bson.M{
		"channelId": channelID,
		"status":    models.MessageStatusDelivered,
	}

	if opts.Before != nil {
		if pivot, err := r.FindByID(ctx, *opts.Before); err == nil {
			filter["createdAt"] = bson.M{"$lt": pivot.CreatedAt}
		} else if !errors.Is(err, apperrors.ErrMessageNotFound) {
			return nil, err
		}
	}
	if opts.After != nil {
		if pivot, err := r.FindByID(ctx, *opts.After); err == nil {
			filter["createdAt"] = bson.M{"$gt": pivot.CreatedAt}
		} else if !errors.Is(err, apperrors.ErrMessageNotFound) {
			return nil, err
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = models.DefaultMessageLimit
	}

	sortDir := -1
	if opts.After != nil {
		sortDir = 1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: sortDir}, {Key: "_id", Value: sortDir}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	if messages == nil {
		return []models.Message{}, nil
	}

	if sortDir < 0 {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}

	return messages, nil
}

// CountByChannelIDs returns the number of delivered messages per channel.
// Channels without messages are absent from the result.
func (r *messageRepository) CountByChannelIDs(ctx context.Context, channelIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(channelIDs))
	if len(channelIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"channelId": bson.M{"$in": channelIDs},
			"status":    models.MessageStatusDelivered,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$channelId",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ChannelID primitive.ObjectID `bson:"_id"`
		Count     int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ChannelID] = row.Count
	}

	return counts, nil
}

// FindDueScheduled returns pending messages whose scheduled time is at or
// before now, oldest first.
func (r *messageRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Message, error) {
	filter := bson.M{
		"status":       models.MessageStatusPending,
		"scheduledFor": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledFor", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return messages, nil
}

// MarkDelivered flips a pending message to delivered. It reports false if
// the message was not pending, so concurrent releases deliver once.
func (r *messageRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.MessageStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    models.MessageStatusDelivered,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.ModifiedCount == 1, nil
}

// UpdateContent replaces a message's content and returns the new message.
func (r *messageRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Message, error) {
	update := bson.M{
		"$set": bson.M{
			"content":   content,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var message models.Message
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, err
	}

	return &message, nil
}

// Delete removes a message.
func (r *messageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}

// DeleteAllByChannelID removes every message of a channel.
func (r *messageRepository) DeleteAllByChannelID(ctx context.Context, channelID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"channelId": channelID})
	return err
}

// DeleteAllByTeamID removes every message of a team.
func (r *messageRepository) DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	return err
}
