package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"teamwork/internal/cache"
	cachemocks "teamwork/internal/cache/mocks"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	repomocks "teamwork/internal/repository/mocks"
	"teamwork/pkg/auth"
	authmocks "teamwork/pkg/auth/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type authDeps struct {
	userRepo   *repomocks.MockUserRepository
	tokenStore *cachemocks.MockRefreshTokenStore
	jwt        *authmocks.MockTokenManager
	generator  *authmocks.MockRefreshTokenGenerator
}

func newTestAuthService(t *testing.T) (*AuthService, authDeps) {
	ctrl := gomock.NewController(t)
	deps := authDeps{
		userRepo:   repomocks.NewMockUserRepository(ctrl),
		tokenStore: cachemocks.NewMockRefreshTokenStore(ctrl),
		jwt:        authmocks.NewMockTokenManager(ctrl),
		generator:  authmocks.NewMockRefreshTokenGenerator(ctrl),
	}
	svc := NewAuthService(AuthServiceConfig{
		UserRepo:        deps.userRepo,
		TokenStore:      deps.tokenStore,
		JWTManager:      deps.jwt,
		TokenGenerator:  deps.generator,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	return svc, deps
}

func TestAuthService_Register(t *testing.T) {
	req := &models.CreateUserRequest{
		Email:    "ana@example.com",
		Password: "password123",
		Name:     "Ana Torres",
	}

	t.Run("creates user and issues a token family", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, user *models.User) error {
				user.ID = primitive.NewObjectID()
				assert.Equal(t, req.Email, user.Email)
				assert.NotEqual(t, req.Password, user.Password)
				return nil
			})
		deps.jwt.EXPECT().GenerateToken(gomock.Any(), req.Email).Return("access-token", nil)
		deps.jwt.EXPECT().Expiry().Return(15 * time.Minute)
		deps.generator.EXPECT().Generate().Return("twrt_family_random", "family", nil)
		deps.generator.EXPECT().Hash("twrt_family_random").Return("hash-1")
		deps.tokenStore.EXPECT().
			Create(gomock.Any(), "family", gomock.Any(), 7*24*time.Hour).
			DoAndReturn(func(ctx context.Context, familyID string, data *cache.RefreshTokenData, ttl time.Duration) error {
				assert.Equal(t, "hash-1", data.CurrentTokenHash)
				assert.Empty(t, data.PreviousTokenHash)
				return nil
			})

		resp, err := svc.Register(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, "twrt_family_random", resp.RefreshToken)
		assert.Equal(t, 900, resp.ExpiresIn)
		assert.Equal(t, req.Email, resp.User.Email)
	})

	t.Run("returns conflict when email exists", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperrors.ErrUserAlreadyExists)

		resp, err := svc.Register(context.Background(), req)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})

	t.Run("rejects passwords bcrypt would truncate", func(t *testing.T) {
		svc, _ := newTestAuthService(t)

		long := *req
		long.Password = strings.Repeat("a", auth.MaxPasswordBytes+1)

		resp, err := svc.Register(context.Background(), &long)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrPasswordTooLong)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{ID: primitive.NewObjectID(), Email: "ana@example.com", Password: hashed}

	t.Run("issues tokens for valid credentials", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.userRepo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
		deps.jwt.EXPECT().GenerateToken(user.ID.Hex(), user.Email).Return("access-token", nil)
		deps.jwt.EXPECT().Expiry().Return(15 * time.Minute)
		deps.generator.EXPECT().Generate().Return("token", "family", nil)
		deps.generator.EXPECT().Hash("token").Return("hash")
		deps.tokenStore.EXPECT().Create(gomock.Any(), "family", gomock.Any(), gomock.Any()).Return(nil)

		resp, err := svc.Login(context.Background(), &models.LoginRequest{Email: user.Email, Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, "token", resp.RefreshToken)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.userRepo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		_, err := svc.Login(context.Background(), &models.LoginRequest{Email: user.Email, Password: "wrong-password"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email is invalid credentials", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.userRepo.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Login(context.Background(), &models.LoginRequest{Email: "nobody@example.com", Password: "x"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("store failures are not masked", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.userRepo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(nil, assert.AnError)

		_, err := svc.Login(context.Background(), &models.LoginRequest{Email: user.Email, Password: "password123"})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	stored := func() *cache.RefreshTokenData {
		return &cache.RefreshTokenData{
			UserID:            userID.Hex(),
			CurrentTokenHash:  "current",
			PreviousTokenHash: "previous",
			ExpiresAt:         now.Add(time.Hour),
		}
	}

	t.Run("rotates the current token", func(t *testing.T) {
		svc, deps := newTestAuthService(t)
		svc.now = func() time.Time { return now }

		deps.generator.EXPECT().ExtractFamilyID("presented").Return("family", nil)
		deps.tokenStore.EXPECT().Get(gomock.Any(), "family").Return(stored(), nil)
		deps.generator.EXPECT().Hash("presented").Return("current")
		deps.generator.EXPECT().CompareHashes("current", "current").Return(true)
		deps.userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(&models.User{ID: userID, Email: "ana@example.com"}, nil)
		deps.generator.EXPECT().GenerateWithFamily("family").Return("next", nil)
		deps.jwt.EXPECT().GenerateToken(userID.Hex(), "ana@example.com").Return("access-token", nil)
		deps.generator.EXPECT().Hash("next").Return("next-hash")
		deps.tokenStore.EXPECT().Rotate(gomock.Any(), "family", "next-hash", 7*24*time.Hour).Return(nil)
		deps.jwt.EXPECT().Expiry().Return(15 * time.Minute)

		resp, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "presented"})

		require.NoError(t, err)
		assert.Equal(t, "next", resp.RefreshToken)
		assert.Equal(t, "access-token", resp.AccessToken)
	})

	t.Run("reusing the previous token revokes the family", func(t *testing.T) {
		svc, deps := newTestAuthService(t)
		svc.now = func() time.Time { return now }

		deps.generator.EXPECT().ExtractFamilyID("stale").Return("family", nil)
		deps.tokenStore.EXPECT().Get(gomock.Any(), "family").Return(stored(), nil)
		deps.generator.EXPECT().Hash("stale").Return("previous")
		deps.generator.EXPECT().CompareHashes("previous", "current").Return(false)
		deps.generator.EXPECT().CompareHashes("previous", "previous").Return(true)
		deps.tokenStore.EXPECT().Delete(gomock.Any(), "family").Return(nil)

		_, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "stale"})

		assert.ErrorIs(t, err, apperrors.ErrRefreshTokenReused)
	})

	t.Run("expired family is deleted", func(t *testing.T) {
		svc, deps := newTestAuthService(t)
		svc.now = func() time.Time { return now.Add(2 * time.Hour) }

		deps.generator.EXPECT().ExtractFamilyID("presented").Return("family", nil)
		deps.tokenStore.EXPECT().Get(gomock.Any(), "family").Return(stored(), nil)
		deps.tokenStore.EXPECT().Delete(gomock.Any(), "family").Return(nil)

		_, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "presented"})

		assert.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
	})

	t.Run("unknown family is invalid", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.generator.EXPECT().ExtractFamilyID("presented").Return("family", nil)
		deps.tokenStore.EXPECT().Get(gomock.Any(), "family").Return(nil, nil)

		_, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "presented"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("malformed token is invalid", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.generator.EXPECT().ExtractFamilyID("garbage").Return("", auth.ErrMalformedRefreshToken)

		_, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "garbage"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		svc, deps := newTestAuthService(t)
		svc.now = func() time.Time { return now }

		deps.generator.EXPECT().ExtractFamilyID("presented").Return("family", nil)
		deps.tokenStore.EXPECT().Get(gomock.Any(), "family").Return(stored(), nil)
		deps.generator.EXPECT().Hash("presented").Return("current")
		deps.generator.EXPECT().CompareHashes("current", "current").Return(true)
		deps.userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(nil, apperrors.ErrUserNotFound)
		deps.tokenStore.EXPECT().Delete(gomock.Any(), "family").Return(nil)

		_, err := svc.Refresh(context.Background(), &models.RefreshRequest{RefreshToken: "presented"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("deletes the family", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.generator.EXPECT().ExtractFamilyID("token").Return("family", nil)
		deps.tokenStore.EXPECT().Delete(gomock.Any(), "family").Return(nil)

		assert.NoError(t, svc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: "token"}))
	})

	t.Run("malformed token is a no-op", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.generator.EXPECT().ExtractFamilyID("garbage").Return("", auth.ErrMalformedRefreshToken)

		assert.NoError(t, svc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: "garbage"}))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		svc, deps := newTestAuthService(t)

		deps.generator.EXPECT().ExtractFamilyID("token").Return("family", nil)
		deps.tokenStore.EXPECT().Delete(gomock.Any(), "family").Return(assert.AnError)

		assert.ErrorIs(t, svc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: "token"}), assert.AnError)
	})
}
