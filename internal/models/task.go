package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

// Task status constants.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// TaskPriority ranks a task.
type TaskPriority string

// Task priority constants.
const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// Task is a unit of work inside a project.
type Task struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	TeamID       primitive.ObjectID  `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439012"`
	ProjectID    primitive.ObjectID  `json:"projectId" bson:"projectId" example:"507f1f77bcf86cd799439013"`
	ParentTaskID *primitive.ObjectID `json:"parentTaskId,omitempty" bson:"parentTaskId,omitempty" example:"507f1f77bcf86cd799439014"`
	PhaseID      *primitive.ObjectID `json:"phaseId,omitempty" bson:"phaseId,omitempty" example:"507f1f77bcf86cd799439017"`
	Title        string              `json:"title" bson:"title" example:"Write docs"`
	Description  string              `json:"description,omitempty" bson:"description,omitempty" example:"API reference for v1"`
	Status       TaskStatus          `json:"status" bson:"status" example:"todo"`
	Priority     TaskPriority        `json:"priority" bson:"priority" example:"medium"`
	DueDate      *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty" example:"2024-02-01T00:00:00Z"`
	AssignedTo   *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty" example:"507f1f77bcf86cd799439015"`
	CreatedBy    primitive.ObjectID  `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439016"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty" example:"2024-02-02T10:00:00Z"`
	// DueSoonNotifiedAt is set once the assignee has been reminded of the
	// current due date.
	DueSoonNotifiedAt *time.Time `json:"-" bson:"dueSoonNotifiedAt,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// GetOwnerID returns the creator of the task.
func (t *Task) GetOwnerID() primitive.ObjectID {
	return t.CreatedBy
}

// TaskWithSubtasks is a task with its direct subtasks.
type TaskWithSubtasks struct {
	Task
	Subtasks []Task `json:"subtasks"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required,min=1,max=200" example:"Write docs"`
	Description  string     `json:"description" binding:"omitempty,max=5000" example:"API reference for v1"`
	Status       string     `json:"status" binding:"omitempty,taskstatus" example:"todo"`
	Priority     string     `json:"priority" binding:"required,taskpriority" example:"medium"`
	DueDate      *time.Time `json:"dueDate" example:"2024-02-01T00:00:00Z"`
	AssignedTo   *string    `json:"assignedTo" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439015"`
	ParentTaskID *string    `json:"parentTaskId" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439014"`
	PhaseID      *string    `json:"phaseId" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439017"`
}

// UpdateTaskRequest is the payload for updating a task.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200" example:"Write API docs"`
	Description *string    `json:"description" binding:"omitempty,max=5000" example:"Updated"`
	Status      *string    `json:"status" binding:"omitempty,taskstatus" example:"in-progress"`
	Priority    *string    `json:"priority" binding:"omitempty,taskpriority" example:"high"`
	DueDate     *time.Time `json:"dueDate" example:"2024-02-05T00:00:00Z"`
	// AssignedTo set to "" clears the assignee.
	AssignedTo *string `json:"assignedTo" example:"507f1f77bcf86cd799439015"`
	// PhaseID set to "" moves the task out of its phase.
	PhaseID *string `json:"phaseId" example:"507f1f77bcf86cd799439017"`
}

// TaskListParams filters a project's tasks.
type TaskListParams struct {
	Status     string
	Priority   string
	AssignedTo *primitive.ObjectID
	ParentID   *primitive.ObjectID
	PhaseID    *primitive.ObjectID
	Search     string
}

// TaskListResponse is the response for listing tasks.
type TaskListResponse struct {
	Items []Task `json:"items"`
}
