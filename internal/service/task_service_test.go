package service

import (
	"context"
	"testing"
	"time"

	"teamwork/internal/authz"
	authzmocks "teamwork/internal/authz/mocks"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	queuemocks "teamwork/internal/queue/mocks"
	repomocks "teamwork/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type taskDeps struct {
	tasks    *repomocks.MockTaskRepository
	projects *repomocks.MockProjectRepository
	phases   *repomocks.MockPhaseRepository
	members  *repomocks.MockTeamMemberRepository
	tx       *repomocks.MockTransactor
	guard    *authzmocks.MockAuthorizer
	notifier *queuemocks.MockNotifier
}

// inTx marks contexts handed out by a test transaction.
type inTx struct{}

// expectTransaction expects one transaction and tags the callback context.
func expectTransaction(tx *repomocks.MockTransactor) {
	tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(context.WithValue(ctx, inTx{}, true))
		})
}

func transactional(ctx context.Context) bool {
	v, _ := ctx.Value(inTx{}).(bool)
	return v
}

func newTestTaskService(t *testing.T) (*TaskService, taskDeps) {
	ctrl := gomock.NewController(t)
	deps := taskDeps{
		tasks:    repomocks.NewMockTaskRepository(ctrl),
		projects: repomocks.NewMockProjectRepository(ctrl),
		phases:   repomocks.NewMockPhaseRepository(ctrl),
		members:  repomocks.NewMockTeamMemberRepository(ctrl),
		tx:       repomocks.NewMockTransactor(ctrl),
		guard:    authzmocks.NewMockAuthorizer(ctrl),
		notifier: queuemocks.NewMockNotifier(ctrl),
	}
	svc := NewTaskService(TaskServiceConfig{
		TaskRepo:    deps.tasks,
		ProjectRepo: deps.projects,
		PhaseRepo:   deps.phases,
		MemberRepo:  deps.members,
		Transactor:  deps.tx,
		Guard:       deps.guard,
		Notifier:    deps.notifier,
	})
	return svc, deps
}

func TestTaskService_CreateTask(t *testing.T) {
	teamID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	creatorID := primitive.NewObjectID()
	assigneeID := primitive.NewObjectID()
	project := &models.Project{ID: projectID, TeamID: teamID}

	t.Run("creates and notifies the assignee", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		assignee := assigneeID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.members.EXPECT().FindByTeamAndUser(gomock.Any(), teamID, assigneeID).Return(&models.TeamMember{}, nil)
		deps.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify([]primitive.ObjectID{assigneeID}, models.NotificationTaskAssigned, gomock.Any()).Return(nil)

		task, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Write docs", Priority: "high", AssignedTo: &assignee,
		})

		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusTodo, task.Status)
		assert.Equal(t, models.TaskPriorityHigh, task.Priority)
		require.NotNil(t, task.AssignedTo)
		assert.Equal(t, assigneeID, *task.AssignedTo)
	})

	t.Run("self-assignment is not notified", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		self := creatorID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.members.EXPECT().FindByTeamAndUser(gomock.Any(), teamID, creatorID).Return(&models.TeamMember{}, nil)
		deps.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Write docs", Priority: "low", AssignedTo: &self,
		})

		require.NoError(t, err)
	})

	t.Run("assignee must be a team member", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		assignee := assigneeID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.members.EXPECT().FindByTeamAndUser(gomock.Any(), teamID, assigneeID).Return(nil, apperrors.ErrNotTeamMember)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Write docs", Priority: "low", AssignedTo: &assignee,
		})

		assert.ErrorIs(t, err, apperrors.ErrAssigneeNotMember)
	})

	t.Run("parent must be in the same project", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		parentID := primitive.NewObjectID()
		parent := parentID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.tasks.EXPECT().FindByID(gomock.Any(), parentID).Return(&models.Task{ID: parentID, ProjectID: primitive.NewObjectID()}, nil)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Subtask", Priority: "low", ParentTaskID: &parent,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidParentTask)
	})

	t.Run("parent cannot be a subtask", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		grandparentID, parentID := primitive.NewObjectID(), primitive.NewObjectID()
		parent := parentID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.tasks.EXPECT().FindByID(gomock.Any(), parentID).Return(&models.Task{ID: parentID, ProjectID: projectID, ParentTaskID: &grandparentID}, nil)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Sub-subtask", Priority: "low", ParentTaskID: &parent,
		})

		assert.ErrorIs(t, err, apperrors.ErrNestedSubtask)
	})

	t.Run("subtask joins the parent's phase", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		parentID, phaseID := primitive.NewObjectID(), primitive.NewObjectID()
		parent := parentID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.tasks.EXPECT().FindByID(gomock.Any(), parentID).Return(&models.Task{ID: parentID, ProjectID: projectID, PhaseID: &phaseID}, nil)
		deps.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		task, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Subtask", Priority: "low", ParentTaskID: &parent,
		})

		require.NoError(t, err)
		require.NotNil(t, task.PhaseID)
		assert.Equal(t, phaseID, *task.PhaseID)
		assert.Equal(t, parentID, *task.ParentTaskID)
	})

	t.Run("phase must be in the same project", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		phaseID := primitive.NewObjectID()
		phase := phaseID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.phases.EXPECT().FindByID(gomock.Any(), phaseID).Return(&models.ProjectPhase{ID: phaseID, ProjectID: primitive.NewObjectID()}, nil)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Phased", Priority: "low", PhaseID: &phase,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidPhase)
	})

	t.Run("unknown phase", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		phaseID := primitive.NewObjectID()
		phase := phaseID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.phases.EXPECT().FindByID(gomock.Any(), phaseID).Return(nil, apperrors.ErrPhaseNotFound)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Phased", Priority: "low", PhaseID: &phase,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidPhase)
	})

	t.Run("missing parent", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		parentID := primitive.NewObjectID()
		parent := parentID.Hex()

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.tasks.EXPECT().FindByID(gomock.Any(), parentID).Return(nil, apperrors.ErrTaskNotFound)

		_, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Subtask", Priority: "low", ParentTaskID: &parent,
		})

		assert.ErrorIs(t, err, apperrors.ErrParentTaskNotFound)
	})

	t.Run("completed task records completion time", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }

		deps.projects.EXPECT().FindByID(gomock.Any(), projectID).Return(project, nil)
		deps.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		task, err := svc.CreateTask(context.Background(), teamID, projectID, creatorID, &models.CreateTaskRequest{
			Title: "Done already", Priority: "low", Status: "completed",
		})

		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, task.CompletedAt.Equal(now))
	})
}

func TestTaskService_GetTask(t *testing.T) {
	teamID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	t.Run("returns task with subtasks", func(t *testing.T) {
		svc, deps := newTestTaskService(t)

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(&models.Task{ID: taskID, TeamID: teamID}, nil)
		deps.tasks.EXPECT().FindSubtasks(gomock.Any(), taskID).Return([]models.Task{{Title: "child"}}, nil)

		got, err := svc.GetTask(context.Background(), teamID, taskID)

		require.NoError(t, err)
		assert.Len(t, got.Subtasks, 1)
	})

	t.Run("task of another team is not found", func(t *testing.T) {
		svc, deps := newTestTaskService(t)

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(&models.Task{ID: taskID, TeamID: primitive.NewObjectID()}, nil)

		_, err := svc.GetTask(context.Background(), teamID, taskID)

		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	teamID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()
	creatorID := primitive.NewObjectID()
	assigneeID := primitive.NewObjectID()
	newAssigneeID := primitive.NewObjectID()

	existing := func() *models.Task {
		a := assigneeID
		return &models.Task{ID: taskID, TeamID: teamID, CreatedBy: creatorID, AssignedTo: &a, Status: models.TaskStatusTodo, Title: "Write docs"}
	}

	t.Run("reassignment notifies the new assignee", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		next := newAssigneeID.Hex()

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(existing(), nil)
		deps.members.EXPECT().FindByTeamAndUser(gomock.Any(), teamID, newAssigneeID).Return(&models.TeamMember{}, nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify([]primitive.ObjectID{newAssigneeID}, models.NotificationTaskAssigned, gomock.Any()).Return(nil)

		task, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{AssignedTo: &next})

		require.NoError(t, err)
		assert.Equal(t, newAssigneeID, *task.AssignedTo)
	})

	t.Run("other updates notify the assignee", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		status := "in-progress"

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(existing(), nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify([]primitive.ObjectID{assigneeID}, models.NotificationTaskUpdated, gomock.Any()).Return(nil)

		task, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, task.Status)
	})

	t.Run("empty assignee unassigns without notifying", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		empty := ""

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(existing(), nil)
		deps.tasks.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, task *models.Task) error {
				assert.Nil(t, task.AssignedTo)
				return nil
			})

		_, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{AssignedTo: &empty})

		require.NoError(t, err)
	})

	t.Run("moves between phases", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		projectID, phaseID := primitive.NewObjectID(), primitive.NewObjectID()
		phase := phaseID.Hex()
		current := existing()
		current.ProjectID = projectID

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(current, nil)
		deps.phases.EXPECT().FindByID(gomock.Any(), phaseID).Return(&models.ProjectPhase{ID: phaseID, ProjectID: projectID}, nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		task, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{PhaseID: &phase})
		require.NoError(t, err)
		require.NotNil(t, task.PhaseID)
		assert.Equal(t, phaseID, *task.PhaseID)

		svc, deps = newTestTaskService(t)
		empty := ""
		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(task, nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		task, err = svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{PhaseID: &empty})
		require.NoError(t, err)
		assert.Nil(t, task.PhaseID)
	})

	t.Run("new due date rearms the reminder", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		later := due.Add(48 * time.Hour)
		reminded := due.Add(-2 * time.Hour)
		current := existing()
		current.DueDate = &due
		current.DueSoonNotifiedAt = &reminded

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(current, nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		task, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{DueDate: &later})

		require.NoError(t, err)
		assert.Nil(t, task.DueSoonNotifiedAt)
	})

	t.Run("same due date keeps the reminder", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		same := due
		reminded := due.Add(-2 * time.Hour)
		current := existing()
		current.DueDate = &due
		current.DueSoonNotifiedAt = &reminded

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(current, nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		task, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{DueDate: &same})

		require.NoError(t, err)
		assert.Equal(t, &reminded, task.DueSoonNotifiedAt)
	})

	t.Run("reopening clears completion time", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		status := "todo"
		done := existing()
		done.Status = models.TaskStatusCompleted
		completed := time.Now()
		done.CompletedAt = &completed
		done.AssignedTo = nil

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(done, nil)
		deps.tasks.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		task, err := svc.UpdateTask(context.Background(), teamID, taskID, creatorID, &models.UpdateTaskRequest{Status: &status})

		require.NoError(t, err)
		assert.Nil(t, task.CompletedAt)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	teamID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()
	creatorID := primitive.NewObjectID()
	task := &models.Task{ID: taskID, TeamID: teamID, CreatedBy: creatorID}

	t.Run("creator or admin deletes with subtasks", func(t *testing.T) {
		svc, deps := newTestTaskService(t)

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(task, nil)
		deps.guard.EXPECT().AuthorizeByOwnership(gomock.Any(), task, creatorID, authz.AdminOnly, teamID).Return(nil)
		expectTransaction(deps.tx)
		gomock.InOrder(
			deps.tasks.EXPECT().DeleteSubtasks(gomock.Any(), taskID).
				DoAndReturn(func(ctx context.Context, _ primitive.ObjectID) error {
					assert.True(t, transactional(ctx), "subtasks deleted outside the transaction")
					return nil
				}),
			deps.tasks.EXPECT().Delete(gomock.Any(), taskID).
				DoAndReturn(func(ctx context.Context, _ primitive.ObjectID) error {
					assert.True(t, transactional(ctx), "task deleted outside the transaction")
					return nil
				}),
		)

		assert.NoError(t, svc.DeleteTask(context.Background(), teamID, taskID, creatorID))
	})

	t.Run("failed subtask delete keeps the task", func(t *testing.T) {
		svc, deps := newTestTaskService(t)

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(task, nil)
		deps.guard.EXPECT().AuthorizeByOwnership(gomock.Any(), task, creatorID, authz.AdminOnly, teamID).Return(nil)
		expectTransaction(deps.tx)
		deps.tasks.EXPECT().DeleteSubtasks(gomock.Any(), taskID).Return(assert.AnError)

		assert.ErrorIs(t, svc.DeleteTask(context.Background(), teamID, taskID, creatorID), assert.AnError)
	})

	t.Run("member cannot delete others' tasks", func(t *testing.T) {
		svc, deps := newTestTaskService(t)
		memberID := primitive.NewObjectID()

		deps.tasks.EXPECT().FindByID(gomock.Any(), taskID).Return(task, nil)
		deps.guard.EXPECT().AuthorizeByOwnership(gomock.Any(), task, memberID, authz.AdminOnly, teamID).Return(apperrors.ErrInsufficientPermissions)

		assert.ErrorIs(t, svc.DeleteTask(context.Background(), teamID, taskID, memberID), apperrors.ErrInsufficientPermissions)
	})
}
