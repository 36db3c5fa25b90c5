// Package models defines data structures for the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Email     string             `json:"email" bson:"email" example:"user@example.com"`
	Password  string             `json:"-" bson:"password"` // never serialized
	Name      string             `json:"name" bson:"name" example:"Ana Torres"`
	AvatarURL string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty" example:"https://example.com/a.png"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// GetOwnerID returns the user itself as owner of its account record.
func (u *User) GetOwnerID() primitive.ObjectID {
	return u.ID
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"secret123"`
	Name     string `json:"name" binding:"required,min=2" example:"Ana Torres"`
}

// UpdateUserRequest is the payload for updating a user.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email" example:"new@example.com"`
	Name      *string `json:"name" binding:"omitempty,min=2" example:"Ana T."`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url" example:"https://example.com/b.png"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}
