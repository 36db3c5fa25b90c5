package service

import (
	"context"
	"log/slog"

	"teamwork/internal/authz"
	"teamwork/internal/models"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultTeamPageSize = 10
	maxTeamPageSize     = 50
)

// TeamService handles business logic for team operations.
type TeamService struct {
	teamRepo    repository.TeamRepository
	memberRepo  repository.TeamMemberRepository
	userRepo    repository.UserRepository
	channelRepo repository.ChannelRepository
	messageRepo repository.MessageRepository
	projectRepo repository.ProjectRepository
	phaseRepo   repository.PhaseRepository
	taskRepo    repository.TaskRepository
	tx          repository.Transactor
	streams     StreamCloser
}

// TeamServiceConfig holds the dependencies of TeamService.
type TeamServiceConfig struct {
	TeamRepo    repository.TeamRepository
	MemberRepo  repository.TeamMemberRepository
	UserRepo    repository.UserRepository
	ChannelRepo repository.ChannelRepository
	MessageRepo repository.MessageRepository
	ProjectRepo repository.ProjectRepository
	PhaseRepo   repository.PhaseRepository
	TaskRepo    repository.TaskRepository
	Transactor  repository.Transactor
	Streams     StreamCloser
}

// NewTeamService creates a new TeamService.
func NewTeamService(cfg TeamServiceConfig) *TeamService {
	return &TeamService{
		teamRepo:    cfg.TeamRepo,
		memberRepo:  cfg.MemberRepo,
		userRepo:    cfg.UserRepo,
		channelRepo: cfg.ChannelRepo,
		messageRepo: cfg.MessageRepo,
		projectRepo: cfg.ProjectRepo,
		phaseRepo:   cfg.PhaseRepo,
		taskRepo:    cfg.TaskRepo,
		tx:          cfg.Transactor,
		streams:     cfg.Streams,
	}
}

// CreateTeam creates a team and makes the creator its first admin. Both
// writes commit together.
func (s *TeamService) CreateTeam(ctx context.Context, userID primitive.ObjectID, req *models.CreateTeamRequest) (*models.Team, error) {
	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.teamRepo.Create(ctx, team); err != nil {
			return err
		}
		return s.memberRepo.Create(ctx, &models.TeamMember{
			TeamID: team.ID,
			UserID: userID,
			Role:   authz.RoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// ListTeams returns paginated teams the user belongs to.
func (s *TeamService) ListTeams(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.TeamListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultTeamPageSize
	}
	if limit > maxTeamPageSize {
		limit = maxTeamPageSize
	}

	teams, total, err := s.teamRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	return &models.TeamListResponse{
		Items:      teams,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// GetTeam retrieves a team with its members.
func (s *TeamService) GetTeam(ctx context.Context, teamID primitive.ObjectID) (*models.TeamDetails, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.FindByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &models.TeamDetails{
		Team:    *team,
		Members: expandMembers(ctx, s.userRepo, members),
	}, nil
}

// UpdateTeam updates a team's information.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	return team, nil
}

// DeleteTeam removes a team with its memberships, channels, messages,
// projects, phases and tasks in one transaction. Open streams of the team
// are closed once it commits.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID primitive.ObjectID) error {
	err := s.tx.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
		if err := s.taskRepo.DeleteAllByTeamID(ctx, teamID); err != nil {
			return err
		}
		if err := s.phaseRepo.DeleteAllByTeamID(ctx, teamID); err != nil {
			return err
		}
		if err := s.projectRepo.DeleteAllByTeamID(ctx, teamID); err != nil {
			return err
		}
		if err := s.messageRepo.DeleteAllByTeamID(ctx, teamID); err != nil {
			return err
		}
		if err := s.channelRepo.DeleteAllByTeamID(ctx, teamID); err != nil {
			return err
		}
		if err := s.memberRepo.DeleteAllByTeamID(ctx, teamID); err != nil {
			return err
		}
		return s.teamRepo.Delete(ctx, teamID)
	})
	if err != nil {
		return err
	}

	closed := 0
	if s.streams != nil {
		closed = s.streams.DisconnectTeam(teamID)
	}
	slog.InfoContext(ctx, "team deleted", "team_id", teamID.Hex(), "streams_closed", closed)
	return nil
}
