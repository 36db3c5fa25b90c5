package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType identifies what a notification is about.
type NotificationType string

// Notification type constants.
const (
	NotificationTaskAssigned    NotificationType = "task_assigned"
	NotificationTaskUpdated     NotificationType = "task_updated"
	NotificationTaskDueSoon     NotificationType = "task_due_soon"
	NotificationMessageReceived NotificationType = "message_received"
	NotificationProjectUpdated  NotificationType = "project_updated"
	NotificationTeamJoined      NotificationType = "team_joined"
	NotificationTeamLeft        NotificationType = "team_left"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId" example:"507f1f77bcf86cd799439012"`
	Type      NotificationType   `json:"type" bson:"type" example:"task_assigned"`
	Content   string             `json:"content" bson:"content" example:"You were assigned to \"Write docs\""`
	IsRead    bool               `json:"isRead" bson:"isRead" example:"false"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
}

// GetOwnerID returns the recipient of the notification.
func (n *Notification) GetOwnerID() primitive.ObjectID {
	return n.UserID
}

// NotificationListOptions filters a user's notifications.
type NotificationListOptions struct {
	Limit      int
	Offset     int
	UnreadOnly bool
	Types      []NotificationType
}

// NotificationListResponse is the response for listing notifications.
type NotificationListResponse struct {
	Items       []Notification `json:"items"`
	Total       int64          `json:"total" example:"25"`
	UnreadCount int64          `json:"unreadCount" example:"3"`
}

// NotificationJob is queued for asynchronous delivery.
type NotificationJob struct {
	UserID     primitive.ObjectID
	Type       NotificationType
	Content    string
	RetryCount int
}
