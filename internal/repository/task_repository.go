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

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	FindByProjectID(ctx context.Context, projectID primitive.ObjectID, params models.TaskListParams) ([]models.Task, error)
	FindSubtasks(ctx context.Context, parentID primitive.ObjectID) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindDueSoon(ctx context.Context, from, to time.Time, limit int) ([]models.Task, error)
	MarkDueSoonNotified(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	ClearPhase(ctx context.Context, phaseID primitive.ObjectID) error
	DeleteSubtasks(ctx context.Context, parentID primitive.ObjectID) error
	DeleteAllByProjectID(ctx context.Context, projectID primitive.ObjectID) error
	DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error
	UnassignUser(ctx context.Context, teamID, userID primitive.ObjectID) error
}

type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &taskRepository{
		collection: db.Collection("tasks"),
	}
}

// Create inserts a new task.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindByID retrieves a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

// FindByProjectID returns a project's tasks matching params, by due date
// then creation time.
func (r *taskRepository) FindByProjectID(ctx context.Context, projectID primitive.ObjectID, params models.TaskListParams) ([]models.Task, error) {
	filter := bson.M{"projectId": projectID}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.Priority != "" {
		filter["priority"] = params.Priority
	}
	if params.AssignedTo != nil {
		filter["assignedTo"] = *params.AssignedTo
	}
	if params.ParentID != nil {
		filter["parentTaskId"] = *params.ParentID
	}
	if params.PhaseID != nil {
		filter["phaseId"] = *params.PhaseID
	}
	if params.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "dueDate", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	return r.find(ctx, filter, opts)
}

// FindSubtasks returns the direct subtasks of a task.
func (r *taskRepository) FindSubtasks(ctx context.Context, parentID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"parentTaskId": parentID}, opts)
}

// FindDueSoon returns open, assigned tasks due within [from, to] whose
// assignee has not been reminded yet, soonest first.
func (r *taskRepository) FindDueSoon(ctx context.Context, from, to time.Time, limit int) ([]models.Task, error) {
	filter := bson.M{
		"dueDate":           bson.M{"$gte": from, "$lte": to},
		"status":            bson.M{"$ne": models.TaskStatusCompleted},
		"assignedTo":        bson.M{"$ne": nil},
		"dueSoonNotifiedAt": nil,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "dueDate", Value: 1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

// MarkDueSoonNotified records the reminder for a task. It reports false when
// another sweep already claimed it.
func (r *taskRepository) MarkDueSoonNotified(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "dueSoonNotifiedAt": nil},
		bson.M{"$set": bson.M{"dueSoonNotifiedAt": at}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// ClearPhase moves every task of a phase out of it.
func (r *taskRepository) ClearPhase(ctx context.Context, phaseID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"phaseId": phaseID},
		bson.M{"$unset": bson.M{"phaseId": ""}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	return err
}

func (r *taskRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}

	return tasks, nil
}

// Update saves a task's mutable fields.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"dueDate":     task.DueDate,
			"assignedTo":  task.AssignedTo,
			"phaseId":     task.PhaseID,
			"completedAt": task.CompletedAt,
			"updatedAt":   task.UpdatedAt,

			"dueSoonNotifiedAt": task.DueSoonNotifiedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// DeleteSubtasks removes the direct subtasks of a task.
func (r *taskRepository) DeleteSubtasks(ctx context.Context, parentID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"parentTaskId": parentID})
	return err
}

// DeleteAllByProjectID removes every task of a project.
func (r *taskRepository) DeleteAllByProjectID(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	return err
}

// DeleteAllByTeamID removes every task of a team.
func (r *taskRepository) DeleteAllByTeamID(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	return err
}

// UnassignUser clears userID as assignee on every task of a team.
func (r *taskRepository) UnassignUser(ctx context.Context, teamID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"teamId": teamID, "assignedTo": userID},
		bson.M{"$unset": bson.M{"assignedTo": ""}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	return err
}
