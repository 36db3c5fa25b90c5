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

// ChannelRepository defines the interface for channel data operations.
type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Channel, error)
	FindByTeamID(ctx context.Context, teamID primitive.ObjectID) ([]models.Channel, error)
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error
}

type channelRepository struct {
	collection *mongo.Collection
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(db *mongo.Database) ChannelRepository {
	return &channelRepository{
		collection: db.Collection("channels"),
	}
}

// Create inserts a new channel.
func (r *channelRepository) Create(ctx context.Context, channel *models.Channel) error {
	now := time.Now()
	channel.ID = primitive.NewObjectID()
	channel.CreatedAt = now
	channel.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, channel)
	return err
}

// FindByID retrieves a channel by ID.
func (r *channelRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Channel, error) {
	var channel models.Channel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&channel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, err
	}

	return &channel, nil
}

// FindByTeamID returns all channels of a team ordered by name.
func (r *channelRepository) FindByTeamID(ctx context.Context, teamID primitive.ObjectID) ([]models.Channel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"teamId": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var channels []models.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, err
	}

	if channels == nil {
		channels = []models.Channel{}
	}

	return channels, nil
}

// Update saves a channel's name, description and type.
func (r *channelRepository) Update(ctx context.Context, channel *models.Channel) error {
	channel.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        channel.Name,
			"description": channel.Description,
			"type":        channel.Type,
			"updatedAt":   channel.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": channel.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrChannelNotFound
	}

	return nil
}

// Delete removes a channel.
func (r *channelRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrChannelNotFound
	}

	return nil
}

// DeleteAllByTeamID removes every channel of a team.
func (r *channelRepository) DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	return err
}
