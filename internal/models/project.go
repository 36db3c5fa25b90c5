package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

// Project status constants.
const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project groups tasks inside a team.
type Project struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	TeamID      primitive.ObjectID `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439012"`
	Name        string             `json:"name" bson:"name" example:"Website relaunch"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" example:"New marketing site"`
	Status      ProjectStatus      `json:"status" bson:"status" example:"active"`
	StartDate   *time.Time         `json:"startDate,omitempty" bson:"startDate,omitempty" example:"2024-02-01T00:00:00Z"`
	EndDate     *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty" example:"2024-04-30T00:00:00Z"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439013"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=120" example:"Website relaunch"`
	Description string     `json:"description" binding:"omitempty,max=2000" example:"New marketing site"`
	Status      string     `json:"status" binding:"omitempty,projectstatus" example:"active"`
	StartDate   *time.Time `json:"startDate" example:"2024-02-01T00:00:00Z"`
	EndDate     *time.Time `json:"endDate" example:"2024-04-30T00:00:00Z"`
}

// UpdateProjectRequest is the payload for updating a project.
type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=120" example:"Website v2"`
	Description *string    `json:"description" binding:"omitempty,max=2000" example:"Updated scope"`
	Status      *string    `json:"status" binding:"omitempty,projectstatus" example:"on-hold"`
	StartDate   *time.Time `json:"startDate" example:"2024-02-01T00:00:00Z"`
	EndDate     *time.Time `json:"endDate" example:"2024-05-31T00:00:00Z"`
}

// ProjectListParams filters a team's projects.
type ProjectListParams struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ProjectListResponse is the response for listing projects.
type ProjectListResponse struct {
	Items      []Project  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
