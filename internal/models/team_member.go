package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a user's role within one team.
type Role string

// Team role constants.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// TeamMember represents a user's membership in a team. A user holds exactly
// one membership per team.
type TeamMember struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	TeamID   primitive.ObjectID `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439012"`
	UserID   primitive.ObjectID `json:"userId" bson:"userId" example:"507f1f77bcf86cd799439013"`
	Role     Role               `json:"role" bson:"role" example:"member"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt" example:"2024-01-15T09:30:00Z"`
}

// TeamMemberWithUser is a team member with expanded user information.
type TeamMemberWithUser struct {
	ID       primitive.ObjectID `json:"id" example:"507f1f77bcf86cd799439011"`
	TeamID   primitive.ObjectID `json:"teamId" example:"507f1f77bcf86cd799439012"`
	UserID   primitive.ObjectID `json:"userId" example:"507f1f77bcf86cd799439013"`
	User     *UserSummary       `json:"user,omitempty"`
	Role     Role               `json:"role" example:"member"`
	JoinedAt time.Time          `json:"joinedAt" example:"2024-01-15T09:30:00Z"`
}

// UserSummary is a minimal user representation for embedding.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id" example:"507f1f77bcf86cd799439013"`
	Email string             `json:"email" example:"user@example.com"`
	Name  string             `json:"name" example:"Ana Torres"`
}

// AddMemberRequest is the payload for adding a user to a team.
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required,objectid" example:"507f1f77bcf86cd799439013"`
	Role   string `json:"role" binding:"required,role" example:"member"`
}

// UpdateRoleRequest is the payload for updating a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required" example:"admin"`
}

// TeamMemberListResponse is the response for listing team members.
type TeamMemberListResponse struct {
	Items []TeamMemberWithUser `json:"items"`
}
