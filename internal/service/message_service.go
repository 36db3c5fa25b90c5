package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"teamwork/internal/authz"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/queue"
	"teamwork/internal/repository"
	"teamwork/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = time.Hour
)

// MessageService handles business logic for channel messages.
type MessageService struct {
	messageRepo repository.MessageRepository
	channelRepo repository.ChannelRepository
	memberRepo  repository.TeamMemberRepository
	guard       authz.Authorizer
	storage     storage.Storage
	publisher   queue.MessagePublisher
	notifier    queue.Notifier
	now         func() time.Time
}

// MessageServiceConfig holds the dependencies of MessageService.
type MessageServiceConfig struct {
	MessageRepo repository.MessageRepository
	ChannelRepo repository.ChannelRepository
	MemberRepo  repository.TeamMemberRepository
	Guard       authz.Authorizer
	Storage     storage.Storage
	Publisher   queue.MessagePublisher
	Notifier    queue.Notifier
}

// NewMessageService creates a new MessageService.
func NewMessageService(cfg MessageServiceConfig) *MessageService {
	return &MessageService{
		messageRepo: cfg.MessageRepo,
		channelRepo: cfg.ChannelRepo,
		memberRepo:  cfg.MemberRepo,
		guard:       cfg.Guard,
		storage:     cfg.Storage,
		publisher:   cfg.Publisher,
		notifier:    cfg.Notifier,
		now:         time.Now,
	}
}

// CreateMessage posts a message to a channel. A message scheduled in the
// future is stored as pending and released later; anything else is
// delivered, broadcast and notified immediately. When an attachment is
// declared the response carries a presigned upload URL.
func (s *MessageService) CreateMessage(ctx context.Context, teamID, channelID, userID primitive.ObjectID, req *models.CreateMessageRequest) (*models.MessageResponse, error) {
	channel, err := findTeamChannel(ctx, s.channelRepo, teamID, channelID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:          primitive.NewObjectID(),
		ChannelID:   channelID,
		TeamID:      teamID,
		SenderID:    userID,
		Content:     req.Content,
		IsTemporary: req.IsTemporary,
		Status:      models.MessageStatusDelivered,
	}
	if req.ScheduledFor != nil && req.ScheduledFor.After(s.now()) {
		scheduled := req.ScheduledFor.UTC()
		msg.ScheduledFor = &scheduled
		msg.Status = models.MessageStatusPending
	}
	if req.Attachment != nil {
		msg.Attachment = &models.Attachment{
			Key:         storage.AttachmentKey(teamID, channelID, msg.ID, req.Attachment.FileName),
			FileName:    req.Attachment.FileName,
			ContentType: req.Attachment.ContentType,
			Size:        req.Attachment.Size,
		}
	}

	// Presign first so a storage failure leaves no message behind.
	var uploadURL string
	if msg.Attachment != nil {
		uploadURL, err = s.storage.PresignPut(ctx, msg.Attachment.Key, msg.Attachment.ContentType, uploadURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign attachment upload: %w", err)
		}
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	resp := &models.MessageResponse{Message: *msg, UploadURL: uploadURL}

	if msg.Status == models.MessageStatusDelivered {
		s.publish(channelID, models.MessageEventCreated, msg)
		s.notifyMembers(ctx, teamID, userID, fmt.Sprintf("New message in #%s", channel.Name))
	}

	return resp, nil
}

// ListMessages returns a window of delivered messages in chronological
// order.
func (s *MessageService) ListMessages(ctx context.Context, teamID, channelID primitive.ObjectID, opts models.MessageListOptions) (*models.MessageListResponse, error) {
	if opts.Before != nil && opts.After != nil {
		return nil, apperrors.ErrInvalidMessageRange
	}
	if opts.Limit <= 0 {
		opts.Limit = models.DefaultMessageLimit
	}
	if opts.Limit > models.MaxMessageLimit {
		opts.Limit = models.MaxMessageLimit
	}

	if _, err := findTeamChannel(ctx, s.channelRepo, teamID, channelID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByChannelID(ctx, channelID, opts)
	if err != nil {
		return nil, err
	}

	return &models.MessageListResponse{Items: messages}, nil
}

// GetMessage retrieves a message, with a presigned download URL when it
// has an attachment.
func (s *MessageService) GetMessage(ctx context.Context, teamID, channelID, messageID primitive.ObjectID) (*models.MessageResponse, error) {
	msg, err := s.findChannelMessage(ctx, teamID, channelID, messageID)
	if err != nil {
		return nil, err
	}

	resp := &models.MessageResponse{Message: *msg}
	if msg.Attachment != nil {
		downloadURL, err := s.storage.PresignGet(ctx, msg.Attachment.Key, downloadURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign attachment download: %w", err)
		}
		resp.DownloadURL = downloadURL
	}

	return resp, nil
}

// UpdateMessage edits a message's content. Only its author may do so.
func (s *MessageService) UpdateMessage(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID, req *models.UpdateMessageRequest) (*models.Message, error) {
	msg, err := s.findChannelMessage(ctx, teamID, channelID, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeByOwnership(ctx, msg, userID, nil, teamID); err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.UpdateContent(ctx, messageID, req.Content)
	if err != nil {
		return nil, err
	}

	if updated.Status == models.MessageStatusDelivered {
		s.publish(channelID, models.MessageEventUpdated, updated)
	}
	return updated, nil
}

// DeleteMessage removes a message. Its author or a team admin may do so.
// Attachment cleanup is best effort.
func (s *MessageService) DeleteMessage(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID) error {
	msg, err := s.findChannelMessage(ctx, teamID, channelID, messageID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeByOwnership(ctx, msg, userID, authz.AdminOnly, teamID); err != nil {
		return err
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	if msg.Attachment != nil {
		if err := s.storage.Delete(ctx, msg.Attachment.Key); err != nil {
			slog.WarnContext(ctx, "failed to delete attachment", "key", msg.Attachment.Key, "error", err)
		}
	}

	if msg.Status == models.MessageStatusDelivered {
		s.publish(channelID, models.MessageEventDeleted, msg)
	}
	return nil
}

// findChannelMessage loads a message and hides messages of other channels.
func (s *MessageService) findChannelMessage(ctx context.Context, teamID, channelID, messageID primitive.ObjectID) (*models.Message, error) {
	if _, err := findTeamChannel(ctx, s.channelRepo, teamID, channelID); err != nil {
		return nil, err
	}
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ChannelID != channelID {
		return nil, apperrors.ErrMessageNotFound
	}
	return msg, nil
}

func (s *MessageService) publish(channelID primitive.ObjectID, eventType string, msg *models.Message) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(channelID, models.MessageEvent{Type: eventType, Message: msg})
}

func (s *MessageService) notifyMembers(ctx context.Context, teamID, senderID primitive.ObjectID, content string) {
	members, err := s.memberRepo.FindByTeamID(ctx, teamID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load members for notification", "team_id", teamID.Hex(), "error", err)
		return
	}
	notify(ctx, s.notifier, memberIDsExcept(members, senderID), models.NotificationMessageReceived, content)
}
