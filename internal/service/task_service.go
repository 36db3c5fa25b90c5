package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamwork/internal/authz"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/queue"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService handles business logic for task operations.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	phaseRepo   repository.PhaseRepository
	memberRepo  repository.TeamMemberRepository
	tx          repository.Transactor
	guard       authz.Authorizer
	notifier    queue.Notifier
	now         func() time.Time
}

// TaskServiceConfig holds the dependencies of TaskService.
type TaskServiceConfig struct {
	TaskRepo    repository.TaskRepository
	ProjectRepo repository.ProjectRepository
	PhaseRepo   repository.PhaseRepository
	MemberRepo  repository.TeamMemberRepository
	Transactor  repository.Transactor
	Guard       authz.Authorizer
	Notifier    queue.Notifier
}

// NewTaskService creates a new TaskService.
func NewTaskService(cfg TaskServiceConfig) *TaskService {
	return &TaskService{
		taskRepo:    cfg.TaskRepo,
		projectRepo: cfg.ProjectRepo,
		phaseRepo:   cfg.PhaseRepo,
		memberRepo:  cfg.MemberRepo,
		tx:          cfg.Transactor,
		guard:       cfg.Guard,
		notifier:    cfg.Notifier,
		now:         time.Now,
	}
}

// CreateTask creates a task in one of the team's projects. The assignee
// must be a team member. A parent task must be a top-level task of the same
// project; a subtask without a phase joins its parent's phase.
func (s *TaskService) CreateTask(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.CreateTaskRequest) (*models.Task, error) {
	if _, err := findTeamProject(ctx, s.projectRepo, teamID, projectID); err != nil {
		return nil, err
	}

	task := &models.Task{
		TeamID:      teamID,
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}
	if req.Status != "" {
		task.Status = models.TaskStatus(req.Status)
	}
	if task.Status == models.TaskStatusCompleted {
		completedAt := s.now()
		task.CompletedAt = &completedAt
	}

	if req.AssignedTo != nil && *req.AssignedTo != "" {
		assignee, err := s.resolveAssignee(ctx, teamID, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &assignee
	}

	var parent *models.Task
	if req.ParentTaskID != nil && *req.ParentTaskID != "" {
		p, err := s.resolveParent(ctx, projectID, *req.ParentTaskID)
		if err != nil {
			return nil, err
		}
		parent = p
		task.ParentTaskID = &p.ID
	}

	switch {
	case req.PhaseID != nil && *req.PhaseID != "":
		phaseID, err := s.resolvePhase(ctx, projectID, *req.PhaseID)
		if err != nil {
			return nil, err
		}
		task.PhaseID = &phaseID
	case parent != nil && parent.PhaseID != nil:
		phaseID := *parent.PhaseID
		task.PhaseID = &phaseID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if task.AssignedTo != nil && *task.AssignedTo != userID {
		notify(ctx, s.notifier, []primitive.ObjectID{*task.AssignedTo}, models.NotificationTaskAssigned,
			fmt.Sprintf("You were assigned to %q", task.Title))
	}

	return task, nil
}

// ListTasks returns the tasks of one of the team's projects.
func (s *TaskService) ListTasks(ctx context.Context, teamID, projectID primitive.ObjectID, params models.TaskListParams) (*models.TaskListResponse, error) {
	if _, err := findTeamProject(ctx, s.projectRepo, teamID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID, params)
	if err != nil {
		return nil, err
	}

	return &models.TaskListResponse{Items: tasks}, nil
}

// GetTask retrieves a task with its direct subtasks.
func (s *TaskService) GetTask(ctx context.Context, teamID, taskID primitive.ObjectID) (*models.TaskWithSubtasks, error) {
	task, err := s.findTeamTask(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.taskRepo.FindSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return &models.TaskWithSubtasks{Task: *task, Subtasks: subtasks}, nil
}

// UpdateTask updates a task. A new assignee is notified of the assignment;
// otherwise the current assignee hears about the update unless they
// created the task.
func (s *TaskService) UpdateTask(ctx context.Context, teamID, taskID, userID primitive.ObjectID, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.findTeamTask(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = models.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		if task.DueDate == nil || !task.DueDate.Equal(*req.DueDate) {
			task.DueSoonNotifiedAt = nil
		}
		task.DueDate = req.DueDate
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		switch {
		case status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted:
			completedAt := s.now()
			task.CompletedAt = &completedAt
		case status != models.TaskStatusCompleted:
			task.CompletedAt = nil
		}
		task.Status = status
	}

	assigneeChanged := false
	if req.AssignedTo != nil {
		var next *primitive.ObjectID
		if *req.AssignedTo != "" {
			assignee, err := s.resolveAssignee(ctx, teamID, *req.AssignedTo)
			if err != nil {
				return nil, err
			}
			next = &assignee
		}
		assigneeChanged = !sameAssignee(task.AssignedTo, next)
		task.AssignedTo = next
		if assigneeChanged {
			task.DueSoonNotifiedAt = nil
		}
	}

	if req.PhaseID != nil {
		task.PhaseID = nil
		if *req.PhaseID != "" {
			phaseID, err := s.resolvePhase(ctx, task.ProjectID, *req.PhaseID)
			if err != nil {
				return nil, err
			}
			task.PhaseID = &phaseID
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	switch {
	case assigneeChanged:
		if task.AssignedTo != nil && *task.AssignedTo != userID {
			notify(ctx, s.notifier, []primitive.ObjectID{*task.AssignedTo}, models.NotificationTaskAssigned,
				fmt.Sprintf("You were assigned to %q", task.Title))
		}
	case task.AssignedTo != nil && *task.AssignedTo != task.CreatedBy:
		notify(ctx, s.notifier, []primitive.ObjectID{*task.AssignedTo}, models.NotificationTaskUpdated,
			fmt.Sprintf("Task %q was updated", task.Title))
	}

	return task, nil
}

// DeleteTask removes a task and its subtasks in one transaction. Its
// creator or a team admin may do so.
func (s *TaskService) DeleteTask(ctx context.Context, teamID, taskID, userID primitive.ObjectID) error {
	task, err := s.findTeamTask(ctx, teamID, taskID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeByOwnership(ctx, task, userID, authz.AdminOnly, teamID); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.DeleteSubtasks(ctx, taskID); err != nil {
			return err
		}
		return s.taskRepo.Delete(ctx, taskID)
	})
}

// findTeamTask loads a task and hides tasks of other teams.
func (s *TaskService) findTeamTask(ctx context.Context, teamID, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TeamID != teamID {
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) resolveAssignee(ctx context.Context, teamID primitive.ObjectID, hex string) (primitive.ObjectID, error) {
	userID, err := parseObjectID(hex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := s.memberRepo.FindByTeamAndUser(ctx, teamID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotTeamMember) {
			return primitive.NilObjectID, apperrors.ErrAssigneeNotMember
		}
		return primitive.NilObjectID, err
	}
	return userID, nil
}

// resolveParent loads a parent task. Subtasks are one level deep, so the
// parent must not be a subtask itself.
func (s *TaskService) resolveParent(ctx context.Context, projectID primitive.ObjectID, hex string) (*models.Task, error) {
	parentID, err := parseObjectID(hex)
	if err != nil {
		return nil, err
	}
	parent, err := s.taskRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return nil, apperrors.ErrParentTaskNotFound
		}
		return nil, err
	}
	if parent.ProjectID != projectID {
		return nil, apperrors.ErrInvalidParentTask
	}
	if parent.ParentTaskID != nil {
		return nil, apperrors.ErrNestedSubtask
	}
	return parent, nil
}

func (s *TaskService) resolvePhase(ctx context.Context, projectID primitive.ObjectID, hex string) (primitive.ObjectID, error) {
	phaseID, err := parseObjectID(hex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := findProjectPhase(ctx, s.phaseRepo, projectID, phaseID); err != nil {
		if errors.Is(err, apperrors.ErrPhaseNotFound) {
			return primitive.NilObjectID, apperrors.ErrInvalidPhase
		}
		return primitive.NilObjectID, err
	}
	return phaseID, nil
}

func sameAssignee(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
