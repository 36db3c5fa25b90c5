package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamwork/internal/authz"
	"teamwork/internal/cache"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userCacheTTL = 15 * time.Minute

// UserService handles business logic for user operations.
type UserService struct {
	repo          repository.UserRepository
	memberRepo    repository.TeamMemberRepository
	taskRepo      repository.TaskRepository
	notifications repository.NotificationRepository
	tx            repository.Transactor
	guard         authz.Authorizer
	cache         cache.Cache
	streams       StreamCloser
}

// UserServiceConfig holds the dependencies of UserService.
type UserServiceConfig struct {
	UserRepo         repository.UserRepository
	MemberRepo       repository.TeamMemberRepository
	TaskRepo         repository.TaskRepository
	NotificationRepo repository.NotificationRepository
	Transactor       repository.Transactor
	Guard            authz.Authorizer
	Cache            cache.Cache
	Streams          StreamCloser
}

// NewUserService creates a new UserService.
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		repo:          cfg.UserRepo,
		memberRepo:    cfg.MemberRepo,
		taskRepo:      cfg.TaskRepo,
		notifications: cfg.NotificationRepo,
		tx:            cfg.Transactor,
		guard:         cfg.Guard,
		cache:         cfg.Cache,
		streams:       cfg.Streams,
	}
}

// GetUser retrieves a user by ID (with caching).
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	cacheKey := cache.UserCacheKey(id.Hex())
	var user models.User
	found, err := s.cache.Get(ctx, cacheKey, &user)
	if err == nil && found {
		return &user, nil
	}

	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// best effort
	_ = s.cache.Set(ctx, cacheKey, dbUser, userCacheTTL)

	return dbUser, nil
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

// UpdateUser updates a user's profile. Only the account owner may do so.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	if err := s.authorizeSelf(ctx, actorID, id); err != nil {
		return nil, err
	}

	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.UserCacheKey(id.Hex()))

	return user, nil
}

// DeleteUser removes a user account. Each of the user's memberships is
// removed under its team's lock and their tasks in that team are
// unassigned.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id primitive.ObjectID) error {
	if err := s.authorizeSelf(ctx, actorID, id); err != nil {
		return err
	}

	memberships, err := s.memberRepo.FindByUserID(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		teamID := m.TeamID
		err := s.tx.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
			if err := s.memberRepo.Delete(ctx, teamID, id); err != nil && !errors.Is(err, apperrors.ErrNotTeamMember) {
				return err
			}
			return s.taskRepo.UnassignUser(ctx, teamID, id)
		})
		if err != nil && !errors.Is(err, apperrors.ErrTeamNotFound) {
			return fmt.Errorf("leave team %s: %w", teamID.Hex(), err)
		}
	}

	if err := s.notifications.DeleteAllByUserID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, cache.UserCacheKey(id.Hex()))
	if s.streams != nil {
		s.streams.DisconnectUser(id)
	}
	slog.InfoContext(ctx, "user deleted", "user_id", id.Hex(), "teams_left", len(memberships))

	return nil
}

// authorizeSelf loads the target account and applies the ownership guard
// with no role fallback. A denial is reported as ErrCannotModifyOtherUser.
func (s *UserService) authorizeSelf(ctx context.Context, actorID, id primitive.ObjectID) error {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.guard.AuthorizeByOwnership(ctx, target, actorID, nil, primitive.NilObjectID)
	if errors.Is(err, apperrors.ErrInsufficientPermissions) {
		return apperrors.ErrCannotModifyOtherUser
	}
	return err
}
