package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChannelType classifies a channel.
type ChannelType string

// Channel type constants.
const (
	ChannelTypeDirect  ChannelType = "direct"
	ChannelTypeGroup   ChannelType = "group"
	ChannelTypeProject ChannelType = "project"
)

// IsValid reports whether t is a known channel type.
func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelTypeDirect, ChannelTypeGroup, ChannelTypeProject:
		return true
	}
	return false
}

// Channel is a message stream inside a team.
type Channel struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	TeamID      primitive.ObjectID `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439012"`
	Name        string             `json:"name" bson:"name" example:"general"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" example:"Team-wide announcements"`
	Type        ChannelType        `json:"type" bson:"type" example:"group"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439013"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// ChannelWithCount is a channel with its message count.
type ChannelWithCount struct {
	Channel
	MessageCount int64 `json:"messageCount" example:"12"`
}

// CreateChannelRequest is the payload for creating a channel.
type CreateChannelRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=80" example:"general"`
	Description string `json:"description" binding:"omitempty,max=500" example:"Team-wide announcements"`
	Type        string `json:"type" binding:"required,channeltype" example:"group"`
}

// UpdateChannelRequest is the payload for updating a channel.
type UpdateChannelRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=80" example:"random"`
	Description *string `json:"description" binding:"omitempty,max=500" example:"Off-topic"`
	Type        *string `json:"type" binding:"omitempty,channeltype" example:"project"`
}

// ChannelListResponse is the response for listing channels.
type ChannelListResponse struct {
	Items []ChannelWithCount `json:"items"`
}
