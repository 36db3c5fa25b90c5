package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team represents a collaboration group with a role-gated member list.
type Team struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Name        string             `json:"name" bson:"name" example:"Engineering"`
	Description string             `json:"description" bson:"description" example:"Platform and infrastructure"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439012"`
	// MembershipVersion is bumped inside every membership transaction so
	// concurrent role changes on the same team conflict.
	MembershipVersion int64     `json:"-" bson:"membershipVersion"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// TeamDetails is a team with its members expanded.
type TeamDetails struct {
	Team
	Members []TeamMemberWithUser `json:"members"`
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"Engineering"`
	Description string `json:"description" binding:"omitempty,max=500" example:"Platform and infrastructure"`
}

// UpdateTeamRequest is the payload for updating a team.
type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100" example:"Platform"`
	Description *string `json:"description" binding:"omitempty,max=500" example:"Updated description"`
}

// TeamListResponse is the response for listing teams.
type TeamListResponse struct {
	Items      []Team     `json:"items"`
	Pagination Pagination `json:"pagination"`
}
