//go:build api

package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/test/api/testserver"
	"teamwork/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberFixture struct {
	teamID      string
	adminID     string
	adminToken  string
	memberID    string
	memberToken string
	guestID     string
	guestToken  string
}

func setupMemberFixture(t *testing.T) memberFixture {
	t.Helper()
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	teamHelper := testserver.NewTeamHelper(testServer)

	var f memberFixture
	f.adminID, f.adminToken = authHelper.CreateAuthenticatedUser(t, "Admin", "admin@example.com", "password123")
	f.memberID, f.memberToken = authHelper.CreateAuthenticatedUser(t, "Member", "member@example.com", "password123")
	f.guestID, f.guestToken = authHelper.CreateAuthenticatedUser(t, "Guest", "guest@example.com", "password123")

	f.teamID = testserver.GetIDFromResponse(t, teamHelper.CreateTeam(t, f.adminToken, "Crew"))
	teamHelper.AddMember(t, f.adminToken, f.teamID, f.memberID, models.RoleMember)
	teamHelper.AddMember(t, f.adminToken, f.teamID, f.guestID, models.RoleGuest)
	return f
}

func membersPath(teamID string) string {
	return "/api/v1/teams/" + teamID + "/members"
}

func TestAddMember(t *testing.T) {
	f := setupMemberFixture(t)
	authHelper := testserver.NewAuthHelper(testServer)
	newID, _ := authHelper.CreateAuthenticatedUser(t, "New", "new@example.com", "password123")

	tests := []struct {
		name           string
		token          string
		body           interface{}
		expectedStatus int
	}{
		{"member cannot add", f.memberToken, models.AddMemberRequest{UserID: newID, Role: "member"}, http.StatusForbidden},
		{"guest cannot add", f.guestToken, models.AddMemberRequest{UserID: newID, Role: "member"}, http.StatusForbidden},
		{"invalid role", f.adminToken, models.AddMemberRequest{UserID: newID, Role: "owner"}, http.StatusBadRequest},
		{"unknown user", f.adminToken, models.AddMemberRequest{UserID: "507f1f77bcf86cd799439011", Role: "member"}, http.StatusNotFound},
		{"already a member", f.adminToken, models.AddMemberRequest{UserID: f.memberID, Role: "member"}, http.StatusConflict},
		{"admin adds", f.adminToken, models.AddMemberRequest{UserID: newID, Role: "guest"}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, membersPath(f.teamID), tt.token, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestUpdateMemberRole(t *testing.T) {
	f := setupMemberFixture(t)

	t.Run("member cannot change roles", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.guestID+"/role",
			f.memberToken, models.UpdateRoleRequest{Role: "admin"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.guestID+"/role",
			f.adminToken, models.UpdateRoleRequest{Role: "superuser"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("sole admin cannot demote themselves", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.adminID+"/role",
			f.adminToken, models.UpdateRoleRequest{Role: "member"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, testutil.ParseAPIResponse(t, w).Error, "last admin")
	})

	t.Run("promotion then demotion of the first admin", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.memberID+"/role",
			f.adminToken, models.UpdateRoleRequest{Role: "admin"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "admin", testutil.ParseAPIResponse(t, w).Data["role"])

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.adminID+"/role",
			f.memberToken, models.UpdateRoleRequest{Role: "member"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// The former admin lost admin routes immediately.
		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, membersPath(f.teamID)+"/"+f.guestID, f.adminToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRemoveMember(t *testing.T) {
	f := setupMemberFixture(t)

	t.Run("member cannot remove someone else", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, membersPath(f.teamID)+"/"+f.guestID, f.memberToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, membersPath(f.teamID)+"/507f1f77bcf86cd799439011", f.adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("admin removes guest and their tasks are unassigned", func(t *testing.T) {
		teamHelper := testserver.NewTeamHelper(testServer)
		projectID := teamHelper.CreateProject(t, f.adminToken, f.teamID, "Roadmap")
		task := teamHelper.CreateTask(t, f.adminToken, f.teamID, projectID, models.CreateTaskRequest{Title: "Triage", AssignedTo: &f.guestID})

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, membersPath(f.teamID)+"/"+f.guestID, f.adminToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams/"+f.teamID, f.guestToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		ctx, cancel := testutil.TestContext()
		defer cancel()
		stored, err := testServer.TaskRepo.FindByID(ctx, testserver.ObjectID(t, testserver.GetIDFromResponse(t, task)))
		require.NoError(t, err)
		assert.Nil(t, stored.AssignedTo)
	})

	t.Run("sole admin cannot demote themselves to guest", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.adminID+"/role",
			f.adminToken, models.UpdateRoleRequest{Role: "guest"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("member leaves", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/teams/"+f.teamID+"/leave", f.memberToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/teams/"+f.teamID+"/leave", f.memberToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("self removal is always allowed", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, membersPath(f.teamID)+"/"+f.adminID, f.adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	})
}

// Two admins demoting each other at the same time must not leave the team
// without an admin.
func TestConcurrentDemotionKeepsAnAdmin(t *testing.T) {
	f := setupMemberFixture(t)

	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, membersPath(f.teamID)+"/"+f.memberID+"/role",
		f.adminToken, models.UpdateRoleRequest{Role: "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	teamID := testserver.ObjectID(t, f.teamID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	demote := func(i int, actor, target string) {
		defer wg.Done()
		_, errs[i] = testServer.TeamMemberService.UpdateRole(context.Background(), teamID,
			testserver.ObjectID(t, target), testserver.ObjectID(t, actor), string(models.RoleMember))
	}
	wg.Add(2)
	go demote(0, f.adminID, f.memberID)
	go demote(1, f.memberID, f.adminID)
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, apperrors.ErrLastAdmin) || errors.Is(err, apperrors.ErrInsufficientPermissions), err.Error())
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactly one demotion should win")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admins, err := testServer.TeamMemberRepo.CountByRole(ctx, teamID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)
}
