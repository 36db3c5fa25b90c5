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

// TeamMemberRepository defines the interface for team member data operations.
type TeamMemberRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	FindByTeamID(ctx context.Context, teamID primitive.ObjectID) ([]models.TeamMember, error)
	FindByTeamAndUser(ctx context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.TeamMember, error)
	CountByRole(ctx context.Context, teamID primitive.ObjectID, role models.Role) (int64, error)
	UpdateRole(ctx context.Context, teamID, userID primitive.ObjectID, role models.Role) error
	Delete(ctx context.Context, teamID, userID primitive.ObjectID) error
	DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error
	DeleteAllByUserID(ctx context.Context, userID primitive.ObjectID) error
}

type teamMemberRepository struct {
	collection *mongo.Collection
}

// NewTeamMemberRepository creates a new TeamMemberRepository.
func NewTeamMemberRepository(db *mongo.Database) TeamMemberRepository {
	return &teamMemberRepository{
		collection: db.Collection("team_members"),
	}
}

// Create inserts a new membership. The (teamId, userId) pair is unique.
func (r *teamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	member.ID = primitive.NewObjectID()
	member.JoinedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, member)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrAlreadyMember
	}
	return err
}

// FindByTeamID returns all members of a team in join order.
func (r *teamMemberRepository) FindByTeamID(ctx context.Context, teamID primitive.ObjectID) ([]models.TeamMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"teamId": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []models.TeamMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	if members == nil {
		members = []models.TeamMember{}
	}

	return members, nil
}

// FindByTeamAndUser returns the membership of userID in teamID, or
// apperrors.ErrNotTeamMember.
func (r *teamMemberRepository) FindByTeamAndUser(ctx context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error) {
	filter := bson.M{
		"teamId": teamID,
		"userId": userID,
	}

	var member models.TeamMember
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotTeamMember
		}
		return nil, err
	}

	return &member, nil
}

// FindByUserID returns all memberships of a user.
func (r *teamMemberRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.TeamMember, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []models.TeamMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	if members == nil {
		members = []models.TeamMember{}
	}

	return members, nil
}

// CountByRole returns how many members of a team hold role.
func (r *teamMemberRepository) CountByRole(ctx context.Context, teamID primitive.ObjectID, role models.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"teamId": teamID,
		"role":   role,
	})
}

// UpdateRole sets a member's role.
func (r *teamMemberRepository) UpdateRole(ctx context.Context, teamID, userID primitive.ObjectID, role models.Role) error {
	filter := bson.M{
		"teamId": teamID,
		"userId": userID,
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrNotTeamMember
	}

	return nil
}

// Delete removes a membership.
func (r *teamMemberRepository) Delete(ctx context.Context, teamID, userID primitive.ObjectID) error {
	filter := bson.M{
		"teamId": teamID,
		"userId": userID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrNotTeamMember
	}

	return nil
}

// DeleteAllByTeamID removes every membership of a team.
func (r *teamMemberRepository) DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	return err
}

// DeleteAllByUserID removes every membership of a user.
func (r *teamMemberRepository) DeleteAllByUserID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
