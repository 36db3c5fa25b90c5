package service

import (
	"context"

	"teamwork/internal/authz"
	"teamwork/internal/models"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationService handles a user's notifications.
type NotificationService struct {
	repo  repository.NotificationRepository
	guard authz.Authorizer
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, guard authz.Authorizer) *NotificationService {
	return &NotificationService{repo: repo, guard: guard}
}

// ListNotifications returns the user's notifications, newest first, with
// the total matching count and the overall unread count.
func (s *NotificationService) ListNotifications(ctx context.Context, userID primitive.ObjectID, opts models.NotificationListOptions) (*models.NotificationListResponse, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultNotificationLimit
	}
	if opts.Limit > maxNotificationLimit {
		opts.Limit = maxNotificationLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	items, total, err := s.repo.FindByUserID(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.NotificationListResponse{
		Items:       items,
		Total:       total,
		UnreadCount: unread,
	}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID primitive.ObjectID) (*models.Notification, error) {
	if err := s.authorizeRecipient(ctx, notificationID, userID); err != nil {
		return nil, err
	}
	return s.repo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// DeleteNotification deletes one of the user's notifications.
func (s *NotificationService) DeleteNotification(ctx context.Context, notificationID, userID primitive.ObjectID) error {
	if err := s.authorizeRecipient(ctx, notificationID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *NotificationService) authorizeRecipient(ctx context.Context, notificationID, userID primitive.ObjectID) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	return s.guard.AuthorizeByOwnership(ctx, n, userID, nil, primitive.NilObjectID)
}
