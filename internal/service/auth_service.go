package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"teamwork/internal/cache"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/repository"
	"teamwork/pkg/auth"
)

// AuthService handles authentication business logic.
type AuthService struct {
	userRepo        repository.UserRepository
	tokenStore      cache.RefreshTokenStore
	jwtManager      auth.TokenManager
	tokenGenerator  auth.RefreshTokenGenerator
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	UserRepo        repository.UserRepository
	TokenStore      cache.RefreshTokenStore
	JWTManager      auth.TokenManager
	TokenGenerator  auth.RefreshTokenGenerator
	RefreshTokenTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:        cfg.UserRepo,
		tokenStore:      cfg.TokenStore,
		jwtManager:      cfg.JWTManager,
		tokenGenerator:  cfg.TokenGenerator,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		now:             time.Now,
	}
}

// Register creates a new user account and returns auth tokens.
func (s *AuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.ErrPasswordTooLong
		}
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.generateAuthResponse(ctx, user)
}

// Login authenticates a user and returns auth tokens.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(req.Password, user.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.generateAuthResponse(ctx, user)
}

// Refresh exchanges a refresh token for a new access and refresh token pair.
// Presenting the token that was rotated out last time revokes the family.
func (s *AuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error) {
	familyID, err := s.tokenGenerator.ExtractFamilyID(req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	storedData, err := s.tokenStore.Get(ctx, familyID)
	if err != nil {
		if errors.Is(err, cache.ErrFamilyNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if storedData == nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if s.now().After(storedData.ExpiresAt) {
		_ = s.tokenStore.Delete(ctx, familyID)
		return nil, apperrors.ErrRefreshTokenExpired
	}

	incomingHash := s.tokenGenerator.Hash(req.RefreshToken)

	if s.tokenGenerator.CompareHashes(incomingHash, storedData.CurrentTokenHash) {
		return s.rotate(ctx, familyID, storedData)
	}

	if storedData.PreviousTokenHash != "" && s.tokenGenerator.CompareHashes(incomingHash, storedData.PreviousTokenHash) {
		slog.WarnContext(ctx, "refresh token reuse detected", "user_id", storedData.UserID, "family_id", familyID)
		_ = s.tokenStore.Delete(ctx, familyID)
		return nil, apperrors.ErrRefreshTokenReused
	}

	return nil, apperrors.ErrInvalidRefreshToken
}

// rotate issues a new pair and makes the presented token the previous one.
func (s *AuthService) rotate(ctx context.Context, familyID string, storedData *cache.RefreshTokenData) (*models.RefreshResponse, error) {
	userID, err := parseObjectID(storedData.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			_ = s.tokenStore.Delete(ctx, familyID)
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateWithFamily(familyID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Rotate(ctx, familyID, s.tokenGenerator.Hash(newRefreshToken), s.refreshTokenTTL); err != nil {
		if errors.Is(err, cache.ErrFamilyNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &models.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int(s.jwtManager.Expiry().Seconds()),
	}, nil
}

// Logout revokes the refresh token family. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, req *models.LogoutRequest) error {
	familyID, err := s.tokenGenerator.ExtractFamilyID(req.RefreshToken)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.Delete(ctx, familyID); err != nil && !errors.Is(err, cache.ErrFamilyNotFound) {
		return err
	}
	return nil
}

// generateAuthResponse creates access and refresh tokens for a user.
func (s *AuthService) generateAuthResponse(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, err
	}

	token, familyID, err := s.tokenGenerator.Generate()
	if err != nil {
		return nil, err
	}

	now := s.now()
	tokenData := &cache.RefreshTokenData{
		UserID:           user.ID.Hex(),
		CurrentTokenHash: s.tokenGenerator.Hash(token),
		ExpiresAt:        now.Add(s.refreshTokenTTL),
		CreatedAt:        now,
	}
	if err := s.tokenStore.Create(ctx, familyID, tokenData, s.refreshTokenTTL); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: token,
		ExpiresIn:    int(s.jwtManager.Expiry().Seconds()),
		User:         *user,
	}, nil
}
