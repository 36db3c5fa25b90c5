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

// PhaseRepository defines the interface for project phase data operations.
type PhaseRepository interface {
	Create(ctx context.Context, phase *models.ProjectPhase) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectPhase, error)
	FindByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectPhase, error)
	Update(ctx context.Context, phase *models.ProjectPhase) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllByProjectID(ctx context.Context, projectID primitive.ObjectID) error
	DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error
}

type phaseRepository struct {
	collection *mongo.Collection
}

// NewPhaseRepository creates a new PhaseRepository.
func NewPhaseRepository(db *mongo.Database) PhaseRepository {
	return &phaseRepository{
		collection: db.Collection("phases"),
	}
}

// Create inserts a new phase.
func (r *phaseRepository) Create(ctx context.Context, phase *models.ProjectPhase) error {
	now := time.Now()
	phase.ID = primitive.NewObjectID()
	phase.CreatedAt = now
	phase.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, phase)
	return err
}

// FindByID retrieves a phase by ID.
func (r *phaseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectPhase, error) {
	var phase models.ProjectPhase
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&phase)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrPhaseNotFound
		}
		return nil, err
	}

	return &phase, nil
}

// FindByProjectID returns a project's phases by order, then creation time.
func (r *phaseRepository) FindByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectPhase, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var phases []models.ProjectPhase
	if err := cursor.All(ctx, &phases); err != nil {
		return nil, err
	}

	if phases == nil {
		phases = []models.ProjectPhase{}
	}

	return phases, nil
}

// Update saves a phase's mutable fields.
func (r *phaseRepository) Update(ctx context.Context, phase *models.ProjectPhase) error {
	phase.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        phase.Name,
			"description": phase.Description,
			"startDate":   phase.StartDate,
			"endDate":     phase.EndDate,
			"order":       phase.Order,
			"updatedAt":   phase.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": phase.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrPhaseNotFound
	}

	return nil
}

// Delete removes a phase.
func (r *phaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrPhaseNotFound
	}

	return nil
}

// DeleteAllByProjectID removes every phase of a project.
func (r *phaseRepository) DeleteAllByProjectID(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	return err
}

// DeleteAllByTeamID removes every phase of a team.
func (r *phaseRepository) DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	return err
}
