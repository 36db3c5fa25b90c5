package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectPhase is a stage of a project. Phases are listed by Order.
type ProjectPhase struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	TeamID      primitive.ObjectID `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439012"`
	ProjectID   primitive.ObjectID `json:"projectId" bson:"projectId" example:"507f1f77bcf86cd799439013"`
	Name        string             `json:"name" bson:"name" example:"Discovery"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" example:"Interviews and audits"`
	StartDate   *time.Time         `json:"startDate,omitempty" bson:"startDate,omitempty" example:"2024-02-01T00:00:00Z"`
	EndDate     *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty" example:"2024-02-28T00:00:00Z"`
	Order       int                `json:"order" bson:"order" example:"0"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// CreatePhaseRequest is the payload for adding a phase to a project.
type CreatePhaseRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=120" example:"Discovery"`
	Description string     `json:"description" binding:"omitempty,max=2000" example:"Interviews and audits"`
	StartDate   *time.Time `json:"startDate" example:"2024-02-01T00:00:00Z"`
	EndDate     *time.Time `json:"endDate" example:"2024-02-28T00:00:00Z"`
	Order       *int       `json:"order" binding:"required,min=0" example:"0"`
}

// UpdatePhaseRequest is the payload for updating a phase.
type UpdatePhaseRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=120" example:"Build"`
	Description *string    `json:"description" binding:"omitempty,max=2000" example:"Implementation"`
	StartDate   *time.Time `json:"startDate" example:"2024-03-01T00:00:00Z"`
	EndDate     *time.Time `json:"endDate" example:"2024-04-15T00:00:00Z"`
	Order       *int       `json:"order" binding:"omitempty,min=0" example:"1"`
}

// PhaseListResponse is the response for listing a project's phases.
type PhaseListResponse struct {
	Items []ProjectPhase `json:"items"`
}
