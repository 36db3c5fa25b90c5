package repository

import (
	"context"
	"testing"
	"time"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTaskRepository(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewTaskRepository(tdb.Database)
	ctx := context.Background()

	t.Run("filters and orders by due date", func(t *testing.T) {
		tdb.ClearCollection(t, "tasks")
		teamID, projectID := primitive.NewObjectID(), primitive.NewObjectID()
		assignee := primitive.NewObjectID()
		soon := time.Now().Add(24 * time.Hour)
		later := time.Now().Add(72 * time.Hour)

		require.NoError(t, repo.Create(ctx, &models.Task{TeamID: teamID, ProjectID: projectID, Title: "later", DueDate: &later, Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow}))
		require.NoError(t, repo.Create(ctx, &models.Task{TeamID: teamID, ProjectID: projectID, Title: "soon", DueDate: &soon, Status: models.TaskStatusBlocked, Priority: models.TaskPriorityHigh, AssignedTo: &assignee}))
		require.NoError(t, repo.Create(ctx, &models.Task{TeamID: teamID, ProjectID: primitive.NewObjectID(), Title: "other project"}))

		tasks, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "soon", tasks[0].Title)

		high, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{Priority: "high"})
		require.NoError(t, err)
		assert.Len(t, high, 1)

		mine, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{AssignedTo: &assignee})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "soon", mine[0].Title)

		blocked, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{Status: "blocked"})
		require.NoError(t, err)
		assert.Len(t, blocked, 1)
	})

	t.Run("subtasks", func(t *testing.T) {
		tdb.ClearCollection(t, "tasks")
		projectID := primitive.NewObjectID()
		parent := &models.Task{ProjectID: projectID, Title: "parent"}
		require.NoError(t, repo.Create(ctx, parent))
		for i := 0; i < 2; i++ {
			require.NoError(t, repo.Create(ctx, &models.Task{ProjectID: projectID, Title: "child", ParentTaskID: &parent.ID}))
		}

		subtasks, err := repo.FindSubtasks(ctx, parent.ID)
		require.NoError(t, err)
		assert.Len(t, subtasks, 2)

		require.NoError(t, repo.DeleteSubtasks(ctx, parent.ID))
		subtasks, err = repo.FindSubtasks(ctx, parent.ID)
		require.NoError(t, err)
		assert.Empty(t, subtasks)
	})

	t.Run("updates, unassigns and deletes", func(t *testing.T) {
		tdb.ClearCollection(t, "tasks")
		teamID := primitive.NewObjectID()
		userID := primitive.NewObjectID()
		task := &models.Task{TeamID: teamID, ProjectID: primitive.NewObjectID(), Title: "t", Status: models.TaskStatusTodo, AssignedTo: &userID}
		require.NoError(t, repo.Create(ctx, task))

		task.Status = models.TaskStatusCompleted
		require.NoError(t, repo.Update(ctx, task))

		require.NoError(t, repo.UnassignUser(ctx, teamID, userID))
		found, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusCompleted, found.Status)
		assert.Nil(t, found.AssignedTo)

		require.NoError(t, repo.Delete(ctx, task.ID))
		_, err = repo.FindByID(ctx, task.ID)
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		assert.ErrorIs(t, repo.Update(ctx, task), apperrors.ErrTaskNotFound)
	})

	t.Run("phase filter and clear", func(t *testing.T) {
		tdb.ClearCollection(t, "tasks")
		projectID, phaseID := primitive.NewObjectID(), primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, &models.Task{ProjectID: projectID, Title: "in phase", PhaseID: &phaseID}))
		require.NoError(t, repo.Create(ctx, &models.Task{ProjectID: projectID, Title: "loose"}))

		inPhase, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{PhaseID: &phaseID})
		require.NoError(t, err)
		require.Len(t, inPhase, 1)
		assert.Equal(t, "in phase", inPhase[0].Title)

		require.NoError(t, repo.ClearPhase(ctx, phaseID))
		inPhase, err = repo.FindByProjectID(ctx, projectID, models.TaskListParams{PhaseID: &phaseID})
		require.NoError(t, err)
		assert.Empty(t, inPhase)

		all, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("due soon sweep claims each task once", func(t *testing.T) {
		tdb.ClearCollection(t, "tasks")
		now := time.Now().UTC().Truncate(time.Millisecond)
		assignee := primitive.NewObjectID()
		in2h, in30h, past := now.Add(2*time.Hour), now.Add(30*time.Hour), now.Add(-time.Hour)

		due := &models.Task{Title: "due", DueDate: &in2h, Status: models.TaskStatusTodo, AssignedTo: &assignee}
		require.NoError(t, repo.Create(ctx, due))
		for _, task := range []*models.Task{
			{Title: "done", DueDate: &in2h, Status: models.TaskStatusCompleted, AssignedTo: &assignee},
			{Title: "unassigned", DueDate: &in2h, Status: models.TaskStatusTodo},
			{Title: "far", DueDate: &in30h, Status: models.TaskStatusTodo, AssignedTo: &assignee},
			{Title: "overdue", DueDate: &past, Status: models.TaskStatusTodo, AssignedTo: &assignee},
			{Title: "no date", Status: models.TaskStatusTodo, AssignedTo: &assignee},
		} {
			require.NoError(t, repo.Create(ctx, task))
		}

		found, err := repo.FindDueSoon(ctx, now, now.Add(24*time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, due.ID, found[0].ID)

		claimed, err := repo.MarkDueSoonNotified(ctx, due.ID, now)
		require.NoError(t, err)
		assert.True(t, claimed)
		claimed, err = repo.MarkDueSoonNotified(ctx, due.ID, now)
		require.NoError(t, err)
		assert.False(t, claimed)

		found, err = repo.FindDueSoon(ctx, now, now.Add(24*time.Hour), 10)
		require.NoError(t, err)
		assert.Empty(t, found)

		// A saved task without the marker is eligible again.
		stored, err := repo.FindByID(ctx, due.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.DueSoonNotifiedAt)
		stored.DueSoonNotifiedAt = nil
		require.NoError(t, repo.Update(ctx, stored))
		found, err = repo.FindDueSoon(ctx, now, now.Add(24*time.Hour), 10)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("bulk deletes", func(t *testing.T) {
		tdb.ClearCollection(t, "tasks")
		teamID, projectID := primitive.NewObjectID(), primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, &models.Task{TeamID: teamID, ProjectID: projectID}))
		require.NoError(t, repo.Create(ctx, &models.Task{TeamID: teamID, ProjectID: primitive.NewObjectID()}))

		require.NoError(t, repo.DeleteAllByProjectID(ctx, projectID))
		tasks, err := repo.FindByProjectID(ctx, projectID, models.TaskListParams{})
		require.NoError(t, err)
		assert.Empty(t, tasks)

		require.NoError(t, repo.DeleteAllByTeamID(ctx, teamID))
		count, err := tdb.Database.Collection("tasks").CountDocuments(ctx, map[string]interface{}{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
