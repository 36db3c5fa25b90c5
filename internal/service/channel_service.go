package service

import (
	"context"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChannelService handles business logic for channel operations.
type ChannelService struct {
	channelRepo repository.ChannelRepository
	messageRepo repository.MessageRepository
	tx          repository.Transactor
	streams     StreamCloser
}

// NewChannelService creates a new ChannelService. streams may be nil.
func NewChannelService(channelRepo repository.ChannelRepository, messageRepo repository.MessageRepository, tx repository.Transactor, streams StreamCloser) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		messageRepo: messageRepo,
		tx:          tx,
		streams:     streams,
	}
}

// CreateChannel creates a channel in the team.
func (s *ChannelService) CreateChannel(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateChannelRequest) (*models.Channel, error) {
	channelType := models.ChannelType(req.Type)
	if !channelType.IsValid() {
		return nil, apperrors.ErrInvalidChannelType
	}

	channel := &models.Channel{
		TeamID:      teamID,
		Name:        req.Name,
		Description: req.Description,
		Type:        channelType,
		CreatedBy:   userID,
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		return nil, err
	}

	return channel, nil
}

// ListChannels returns the team's channels with their message counts.
func (s *ChannelService) ListChannels(ctx context.Context, teamID primitive.ObjectID) (*models.ChannelListResponse, error) {
	channels, err := s.channelRepo.FindByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(channels))
	for i, c := range channels {
		ids[i] = c.ID
	}
	counts, err := s.messageRepo.CountByChannelIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.ChannelWithCount, len(channels))
	for i, c := range channels {
		items[i] = models.ChannelWithCount{Channel: c, MessageCount: counts[c.ID]}
	}

	return &models.ChannelListResponse{Items: items}, nil
}

// GetChannel retrieves a channel of the team.
func (s *ChannelService) GetChannel(ctx context.Context, teamID, channelID primitive.ObjectID) (*models.Channel, error) {
	return findTeamChannel(ctx, s.channelRepo, teamID, channelID)
}

// UpdateChannel updates a channel's information.
func (s *ChannelService) UpdateChannel(ctx context.Context, teamID, channelID primitive.ObjectID, req *models.UpdateChannelRequest) (*models.Channel, error) {
	channel, err := findTeamChannel(ctx, s.channelRepo, teamID, channelID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		channel.Name = *req.Name
	}
	if req.Description != nil {
		channel.Description = *req.Description
	}
	if req.Type != nil {
		channelType := models.ChannelType(*req.Type)
		if !channelType.IsValid() {
			return nil, apperrors.ErrInvalidChannelType
		}
		channel.Type = channelType
	}

	if err := s.channelRepo.Update(ctx, channel); err != nil {
		return nil, err
	}

	return channel, nil
}

// DeleteChannel removes a channel and its messages.
func (s *ChannelService) DeleteChannel(ctx context.Context, teamID, channelID primitive.ObjectID) error {
	if _, err := findTeamChannel(ctx, s.channelRepo, teamID, channelID); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.messageRepo.DeleteAllByChannelID(ctx, channelID); err != nil {
			return err
		}
		return s.channelRepo.Delete(ctx, channelID)
	})
	if err != nil {
		return err
	}

	if s.streams != nil {
		s.streams.DisconnectChannel(channelID)
	}
	return nil
}

// findTeamChannel loads a channel and hides channels of other teams.
func findTeamChannel(ctx context.Context, repo repository.ChannelRepository, teamID, channelID primitive.ObjectID) (*models.Channel, error) {
	channel, err := repo.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.TeamID != teamID {
		return nil, apperrors.ErrChannelNotFound
	}
	return channel, nil
}
