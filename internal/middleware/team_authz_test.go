package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamwork/internal/authz"
	"teamwork/internal/authz/mocks"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func newTeamContext(teamParam string, userID primitive.ObjectID) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/teams/"+teamParam, nil)
	c.Params = gin.Params{{Key: "teamId", Value: teamParam}}
	if !userID.IsZero() {
		c.Set(UserIDKey, userID.Hex())
	}
	return w, c
}

func TestTeamAuthz(t *testing.T) {
	validUserID := primitive.NewObjectID()
	validTeamID := primitive.NewObjectID()

	t.Run("allows request and stores team and role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			Authorize(gomock.Any(), validTeamID, validUserID, authz.AnyMember).
			Return(&models.TeamMember{TeamID: validTeamID, UserID: validUserID, Role: models.RoleMember}, nil)

		w, c := newTeamContext(validTeamID.Hex(), validUserID)
		TeamAuthz(mockAuthz, authz.AnyMember)(c)

		assert.False(t, c.IsAborted())
		assert.Equal(t, http.StatusOK, w.Code)
		teamID, exists := GetTeamID(c)
		assert.True(t, exists)
		assert.Equal(t, validTeamID, teamID)
		assert.Equal(t, models.RoleMember, GetTeamRole(c))
	})

	t.Run("maps each deny kind to its status", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{apperrors.ErrNotAuthenticated, http.StatusUnauthorized},
			{apperrors.ErrTeamNotFound, http.StatusNotFound},
			{apperrors.ErrNotTeamMember, http.StatusNotFound},
			{apperrors.ErrInsufficientPermissions, http.StatusForbidden},
			{errors.New("database error"), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			ctrl := gomock.NewController(t)
			mockAuthz := mocks.NewMockAuthorizer(ctrl)
			mockAuthz.EXPECT().
				Authorize(gomock.Any(), validTeamID, validUserID, authz.AdminOnly).
				Return(nil, tc.err)

			w, c := newTeamContext(validTeamID.Hex(), validUserID)
			TeamAuthz(mockAuthz, authz.AdminOnly)(c)

			assert.True(t, c.IsAborted(), tc.err.Error())
			assert.Equal(t, tc.status, w.Code, tc.err.Error())
		}
	})

	t.Run("hides internal error details", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			Authorize(gomock.Any(), validTeamID, validUserID, authz.AnyMember).
			Return(nil, errors.New("connection refused"))

		w, c := newTeamContext(validTeamID.Hex(), validUserID)
		TeamAuthz(mockAuthz, authz.AnyMember)(c)

		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("passes the nil user to the guard when unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			Authorize(gomock.Any(), validTeamID, primitive.NilObjectID, authz.AnyMember).
			Return(nil, apperrors.ErrNotAuthenticated)

		w, c := newTeamContext(validTeamID.Hex(), primitive.NilObjectID)
		TeamAuthz(mockAuthz, authz.AnyMember)(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, c.IsAborted())
	})

	t.Run("rejects request when team ID missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuthz := mocks.NewMockAuthorizer(ctrl)

		w, c := newTeamContext("", validUserID)
		TeamAuthz(mockAuthz, authz.AnyMember)(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, c.IsAborted())
	})

	t.Run("rejects request with invalid team ID format", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuthz := mocks.NewMockAuthorizer(ctrl)

		w, c := newTeamContext("invalid-team-id", validUserID)
		TeamAuthz(mockAuthz, authz.AnyMember)(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, c.IsAborted())
	})
}

func TestTeamMember(t *testing.T) {
	validUserID := primitive.NewObjectID()
	validTeamID := primitive.NewObjectID()

	ctrl := gomock.NewController(t)
	mockAuthz := mocks.NewMockAuthorizer(ctrl)
	mockAuthz.EXPECT().
		Authorize(gomock.Any(), validTeamID, validUserID, authz.AnyMember).
		Return(&models.TeamMember{Role: models.RoleGuest}, nil)

	_, c := newTeamContext(validTeamID.Hex(), validUserID)
	TeamMember(mockAuthz)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, models.RoleGuest, GetTeamRole(c))
}

func TestTeamAuthz_WithGuard(t *testing.T) {
	// The real guard behind the middleware: guests can read but not write.
	userID := primitive.NewObjectID()
	teamID := primitive.NewObjectID()
	store := &stubMembership{member: &models.TeamMember{TeamID: teamID, UserID: userID, Role: models.RoleGuest}}
	guard := authz.NewGuard(store, stubTeams{})

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(UserIDKey, userID.Hex()) })
	router.GET("/teams/:teamId", TeamAuthz(guard, authz.AnyMember), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.PUT("/teams/:teamId", TeamAuthz(guard, authz.AdminOrMember), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams/"+teamID.Hex(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/teams/"+teamID.Hex(), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type stubMembership struct {
	member *models.TeamMember
}

func (s *stubMembership) FindByTeamAndUser(_ context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error) {
	if s.member == nil || s.member.TeamID != teamID || s.member.UserID != userID {
		return nil, apperrors.ErrNotTeamMember
	}
	return s.member, nil
}

func (s *stubMembership) CountByRole(_ context.Context, _ primitive.ObjectID, role models.Role) (int64, error) {
	if s.member != nil && s.member.Role == role {
		return 1, nil
	}
	return 0, nil
}

type stubTeams struct{}

func (stubTeams) Exists(context.Context, primitive.ObjectID) (bool, error) { return true, nil }
