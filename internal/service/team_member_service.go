package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"teamwork/internal/authz"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/queue"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamMemberService handles business logic for team member operations.
// Every membership mutation runs under the team's lock so the last-admin
// check and the write see the same admin count.
type TeamMemberService struct {
	memberRepo repository.TeamMemberRepository
	userRepo   repository.UserRepository
	teamRepo   repository.TeamRepository
	taskRepo   repository.TaskRepository
	tx         repository.Transactor
	guard      authz.Authorizer
	enforcer   *authz.Enforcer
	notifier   queue.Notifier
	streams    StreamCloser
}

// TeamMemberServiceConfig holds the dependencies of TeamMemberService.
type TeamMemberServiceConfig struct {
	MemberRepo repository.TeamMemberRepository
	UserRepo   repository.UserRepository
	TeamRepo   repository.TeamRepository
	TaskRepo   repository.TaskRepository
	Transactor repository.Transactor
	Guard      authz.Authorizer
	Enforcer   *authz.Enforcer
	Notifier   queue.Notifier
	Streams    StreamCloser
}

// NewTeamMemberService creates a new TeamMemberService.
func NewTeamMemberService(cfg TeamMemberServiceConfig) *TeamMemberService {
	return &TeamMemberService{
		memberRepo: cfg.MemberRepo,
		userRepo:   cfg.UserRepo,
		teamRepo:   cfg.TeamRepo,
		taskRepo:   cfg.TaskRepo,
		tx:         cfg.Transactor,
		guard:      cfg.Guard,
		enforcer:   cfg.Enforcer,
		notifier:   cfg.Notifier,
		streams:    cfg.Streams,
	}
}

// ListMembers returns all members of a team with user details.
func (s *TeamMemberService) ListMembers(ctx context.Context, teamID primitive.ObjectID) (*models.TeamMemberListResponse, error) {
	members, err := s.memberRepo.FindByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &models.TeamMemberListResponse{
		Items: expandMembers(ctx, s.userRepo, members),
	}, nil
}

// AddMember adds an existing user to the team with the given role.
func (s *TeamMemberService) AddMember(ctx context.Context, teamID, actorID primitive.ObjectID, req *models.AddMemberRequest) (*models.TeamMember, error) {
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	userID, err := parseObjectID(req.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	err = s.tx.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
		if _, err := s.guard.Authorize(ctx, teamID, actorID, authz.AdminOnly); err != nil {
			return err
		}
		return s.memberRepo.Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	teamName := s.teamName(ctx, teamID)
	notify(ctx, s.notifier, []primitive.ObjectID{userID}, models.NotificationTeamJoined,
		fmt.Sprintf("You were added to team %q", teamName))
	s.notifyOthers(ctx, teamID, models.NotificationTeamJoined,
		fmt.Sprintf("A new member joined team %q", teamName), actorID, userID)

	return member, nil
}

// UpdateRole changes a member's role. Demoting the last admin fails with
// apperrors.ErrLastAdmin.
func (s *TeamMemberService) UpdateRole(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID, newRole string) (*models.TeamMember, error) {
	role, err := authz.ParseRole(newRole)
	if err != nil {
		return nil, err
	}

	var updated *models.TeamMember
	err = s.tx.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
		if _, err := s.guard.Authorize(ctx, teamID, actorID, authz.AdminOnly); err != nil {
			return err
		}

		target, err := s.findTarget(ctx, teamID, targetUserID)
		if err != nil {
			return err
		}
		if err := s.enforcer.CheckRoleChange(ctx, target, role); err != nil {
			return err
		}
		if err := s.memberRepo.UpdateRole(ctx, teamID, targetUserID, role); err != nil {
			return err
		}

		target.Role = role
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "member role changed",
		"team_id", teamID.Hex(),
		"user_id", targetUserID.Hex(),
		"role", role,
		"actor_id", actorID.Hex(),
	)
	return updated, nil
}

// RemoveMember removes a member from the team. Members may remove
// themselves; removing anyone else requires an admin and must leave the
// team with at least one admin.
func (s *TeamMemberService) RemoveMember(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID) error {
	err := s.tx.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
		target, err := s.findTarget(ctx, teamID, targetUserID)
		if err != nil {
			return err
		}
		if err := s.enforcer.CheckRemoval(ctx, target, actorID); err != nil {
			return err
		}
		if err := s.memberRepo.Delete(ctx, teamID, targetUserID); err != nil {
			return err
		}
		return s.taskRepo.UnassignUser(ctx, teamID, targetUserID)
	})
	if err != nil {
		return err
	}

	if s.streams != nil {
		s.streams.DisconnectMember(teamID, targetUserID)
	}

	teamName := s.teamName(ctx, teamID)
	if targetUserID != actorID {
		notify(ctx, s.notifier, []primitive.ObjectID{targetUserID}, models.NotificationTeamLeft,
			fmt.Sprintf("You were removed from team %q", teamName))
	}
	s.notifyOthers(ctx, teamID, models.NotificationTeamLeft,
		fmt.Sprintf("A member left team %q", teamName), actorID)

	return nil
}

// LeaveTeam removes the caller from the team.
func (s *TeamMemberService) LeaveTeam(ctx context.Context, teamID, userID primitive.ObjectID) error {
	return s.RemoveMember(ctx, teamID, userID, userID)
}

// findTarget loads the member being acted on. A missing target is a missing
// resource, not a statement about the caller.
func (s *TeamMemberService) findTarget(ctx context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error) {
	target, err := s.memberRepo.FindByTeamAndUser(ctx, teamID, userID)
	if errors.Is(err, apperrors.ErrNotTeamMember) {
		return nil, apperrors.ErrResourceNotFound
	}
	return target, err
}

func (s *TeamMemberService) teamName(ctx context.Context, teamID primitive.ObjectID) string {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return teamID.Hex()
	}
	return team.Name
}

// notifyOthers notifies every current member except the excluded users.
func (s *TeamMemberService) notifyOthers(ctx context.Context, teamID primitive.ObjectID, notificationType models.NotificationType, content string, exclude ...primitive.ObjectID) {
	members, err := s.memberRepo.FindByTeamID(ctx, teamID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load members for notification", "team_id", teamID.Hex(), "error", err)
		return
	}
	notify(ctx, s.notifier, memberIDsExcept(members, exclude...), notificationType, content)
}

// expandMembers attaches user summaries. Members whose user cannot be
// loaded are returned without one.
func expandMembers(ctx context.Context, userRepo repository.UserRepository, members []models.TeamMember) []models.TeamMemberWithUser {
	items := make([]models.TeamMemberWithUser, len(members))
	for i, m := range members {
		item := models.TeamMemberWithUser{
			ID:       m.ID,
			TeamID:   m.TeamID,
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if user, err := userRepo.FindByID(ctx, m.UserID); err == nil {
			item.User = &models.UserSummary{
				ID:    user.ID,
				Email: user.Email,
				Name:  user.Name,
			}
		}
		items[i] = item
	}
	return items
}
