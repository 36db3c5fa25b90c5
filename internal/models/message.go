package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStatus tracks whether a message is visible yet.
type MessageStatus string

// Message status constants.
const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusDelivered MessageStatus = "delivered"
)

// DefaultMessageLimit is the page size used when none is given.
const DefaultMessageLimit = 50

// MaxMessageLimit caps the page size of a message listing.
const MaxMessageLimit = 200

// Message is a message posted to a channel.
type Message struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	ChannelID    primitive.ObjectID `json:"channelId" bson:"channelId" example:"507f1f77bcf86cd799439012"`
	TeamID       primitive.ObjectID `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439013"`
	SenderID     primitive.ObjectID `json:"senderId" bson:"senderId" example:"507f1f77bcf86cd799439014"`
	Content      string             `json:"content" bson:"content" example:"Deploy is done"`
	IsTemporary  bool               `json:"isTemporary" bson:"isTemporary" example:"false"`
	Status       MessageStatus      `json:"status" bson:"status" example:"delivered"`
	ScheduledFor *time.Time         `json:"scheduledFor,omitempty" bson:"scheduledFor,omitempty" example:"2024-01-15T12:00:00Z"`
	Attachment   *Attachment        `json:"attachment,omitempty" bson:"attachment,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// GetOwnerID returns the author of the message.
func (m *Message) GetOwnerID() primitive.ObjectID {
	return m.SenderID
}

// Attachment describes a file stored alongside a message.
type Attachment struct {
	Key         string `json:"-" bson:"key"`
	FileName    string `json:"fileName" bson:"fileName" example:"report.pdf"`
	ContentType string `json:"contentType" bson:"contentType" example:"application/pdf"`
	Size        int64  `json:"size" bson:"size" example:"20480"`
}

// AttachmentRequest declares a file that will be uploaded with a message.
type AttachmentRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255" example:"report.pdf"`
	ContentType string `json:"contentType" binding:"required,mimetype" example:"application/pdf"`
	Size        int64  `json:"size" binding:"required,min=1,max=26214400" example:"20480"`
}

// CreateMessageRequest is the payload for posting a message.
type CreateMessageRequest struct {
	Content      string             `json:"content" binding:"required,min=1,max=4000" example:"Deploy is done"`
	IsTemporary  bool               `json:"isTemporary" example:"false"`
	ScheduledFor *time.Time         `json:"scheduledFor" example:"2024-01-15T12:00:00Z"`
	Attachment   *AttachmentRequest `json:"attachment"`
}

// UpdateMessageRequest is the payload for editing a message.
type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000" example:"Deploy is done, all green"`
}

// MessageListOptions selects a window of a channel's messages.
type MessageListOptions struct {
	Limit  int
	Before *primitive.ObjectID
	After  *primitive.ObjectID
}

// MessageResponse is a message with an optional presigned URL for its attachment.
type MessageResponse struct {
	Message
	UploadURL   string `json:"uploadUrl,omitempty" example:"https://bucket.s3.amazonaws.com/..."`
	DownloadURL string `json:"downloadUrl,omitempty" example:"https://bucket.s3.amazonaws.com/..."`
}

// MessageListResponse is the response for listing messages.
type MessageListResponse struct {
	Items []Message `json:"items"`
}

// MessageEvent is broadcast to channel subscribers when a message changes.
type MessageEvent struct {
	Type    string   `json:"type" example:"message.created"`
	Message *Message `json:"message"`
}

// Message event types.
const (
	MessageEventCreated = "message.created"
	MessageEventUpdated = "message.updated"
	MessageEventDeleted = "message.deleted"
)
