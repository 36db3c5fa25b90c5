package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func teamRouter(m *mocks.MockTeamService, actor primitive.ObjectID) *gin.Engine {
	h := NewTeamHandler(m)
	router := gin.New()
	router.Use(asUser(actor))
	router.POST("/teams", h.CreateTeam)
	router.GET("/teams", h.ListTeams)
	team := router.Group("/teams/:teamId", inTeam(models.RoleAdmin))
	team.GET("", h.GetTeam)
	team.PUT("", h.UpdateTeam)
	team.DELETE("", h.DeleteTeam)
	return router
}

func TestTeamHandler_CreateTeam(t *testing.T) {
	actor := primitive.NewObjectID()

	t.Run("creates team for the caller", func(t *testing.T) {
		var gotUser primitive.ObjectID
		m := &mocks.MockTeamService{
			CreateTeamFunc: func(ctx context.Context, userID primitive.ObjectID, req *models.CreateTeamRequest) (*models.Team, error) {
				gotUser = userID
				return &models.Team{ID: primitive.NewObjectID(), Name: req.Name, CreatedBy: userID}, nil
			},
		}

		w := performRequest(t, teamRouter(m, actor), http.MethodPost, "/teams", models.CreateTeamRequest{Name: "Engineering"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, actor, gotUser)
		var team models.Team
		decode(t, w, &team)
		assert.Equal(t, "Engineering", team.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		w := performRequest(t, teamRouter(&mocks.MockTeamService{}, actor), http.MethodPost, "/teams", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error", func(t *testing.T) {
		m := &mocks.MockTeamService{
			CreateTeamFunc: func(ctx context.Context, userID primitive.ObjectID, req *models.CreateTeamRequest) (*models.Team, error) {
				return nil, errors.New("transaction aborted")
			},
		}

		w := performRequest(t, teamRouter(m, actor), http.MethodPost, "/teams", models.CreateTeamRequest{Name: "Engineering"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTeamHandler_ListTeams(t *testing.T) {
	actor := primitive.NewObjectID()
	var gotPage, gotLimit int
	m := &mocks.MockTeamService{
		ListTeamsFunc: func(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.TeamListResponse, error) {
			gotPage, gotLimit = page, limit
			return &models.TeamListResponse{Items: []models.Team{{Name: "A"}}, Pagination: models.NewPagination(page, limit, 1)}, nil
		},
	}

	w := performRequest(t, teamRouter(m, actor), http.MethodGet, "/teams?page=2&limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotLimit)
}

func TestTeamHandler_GetTeam(t *testing.T) {
	teamID := primitive.NewObjectID()

	t.Run("returns details", func(t *testing.T) {
		m := &mocks.MockTeamService{
			GetTeamFunc: func(ctx context.Context, id primitive.ObjectID) (*models.TeamDetails, error) {
				return &models.TeamDetails{Team: models.Team{ID: id, Name: "Eng"}, Members: []models.TeamMemberWithUser{{Role: models.RoleAdmin}}}, nil
			},
		}

		w := performRequest(t, teamRouter(m, primitive.NewObjectID()), http.MethodGet, "/teams/"+teamID.Hex(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var details models.TeamDetails
		decode(t, w, &details)
		assert.Equal(t, teamID, details.ID)
		assert.Len(t, details.Members, 1)
	})

	t.Run("team gone", func(t *testing.T) {
		m := &mocks.MockTeamService{
			GetTeamFunc: func(ctx context.Context, id primitive.ObjectID) (*models.TeamDetails, error) {
				return nil, apperrors.ErrTeamNotFound
			},
		}

		w := performRequest(t, teamRouter(m, primitive.NewObjectID()), http.MethodGet, "/teams/"+teamID.Hex(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrTeamNotFound.Error(), decode(t, w, nil).Error)
	})
}

func TestTeamHandler_UpdateTeam(t *testing.T) {
	teamID := primitive.NewObjectID()
	m := &mocks.MockTeamService{
		UpdateTeamFunc: func(ctx context.Context, id primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error) {
			return &models.Team{ID: id, Name: *req.Name}, nil
		},
	}

	w := performRequest(t, teamRouter(m, primitive.NewObjectID()), http.MethodPut, "/teams/"+teamID.Hex(), map[string]string{"name": "Platform"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, teamRouter(m, primitive.NewObjectID()), http.MethodPut, "/teams/"+teamID.Hex(), map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamHandler_DeleteTeam(t *testing.T) {
	teamID := primitive.NewObjectID()
	var deleted primitive.ObjectID
	m := &mocks.MockTeamService{
		DeleteTeamFunc: func(ctx context.Context, id primitive.ObjectID) error {
			deleted = id
			return nil
		},
	}

	w := performRequest(t, teamRouter(m, primitive.NewObjectID()), http.MethodDelete, "/teams/"+teamID.Hex(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, teamID, deleted)
}
