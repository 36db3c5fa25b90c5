package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	FindByTeamID(ctx context.Context, teamID primitive.ObjectID, params models.ProjectListParams) ([]models.Project, int, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error
}

type projectRepository struct {
	collection *mongo.Collection
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *mongo.Database) ProjectRepository {
	return &projectRepository{
		collection: db.Collection("projects"),
	}
}

// Create inserts a new project.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// FindByID retrieves a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}

// FindByTeamID returns a page of a team's projects, newest first. Search
// matches name or description case-insensitively.
func (r *projectRepository) FindByTeamID(ctx context.Context, teamID primitive.ObjectID, params models.ProjectListParams) ([]models.Project, int, error) {
	filter := bson.M{"teamId": teamID}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (params.Page - 1) * params.Limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(params.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}

	if projects == nil {
		projects = []models.Project{}
	}

	return projects, int(total), nil
}

// Update saves a project's mutable fields.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"startDate":   project.StartDate,
			"endDate":     project.EndDate,
			"updatedAt":   project.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}

// Delete removes a project.
func (r *projectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}

// DeleteAllByTeamID removes every project of a team.
func (r *projectRepository) DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	return err
}
