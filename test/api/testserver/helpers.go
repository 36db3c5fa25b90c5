//go:build api

package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"teamwork/internal/models"
	"teamwork/test/testutil"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHelper provides authentication helpers for API tests.
type AuthHelper struct {
	server *TestServer
}

// NewAuthHelper creates a new auth helper.
func NewAuthHelper(server *TestServer) *AuthHelper {
	return &AuthHelper{server: server}
}

// RegisterUser registers a new user and returns the auth response data.
func (ah *AuthHelper) RegisterUser(t *testing.T, name, email, password string) map[string]interface{} {
	t.Helper()

	req := models.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}

	w := testutil.MakeRequest(t, ah.server.Router, http.MethodPost, "/api/v1/auth/register", req)
	require.Equal(t, http.StatusCreated, w.Code, "register should return 201, got: %s", w.Body.String())

	resp := testutil.ParseAPIResponse(t, w)
	require.True(t, resp.Success, "register response should be successful")
	return resp.Data
}

// Login logs in a user and returns the auth response containing tokens.
func (ah *AuthHelper) Login(t *testing.T, email, password string) map[string]interface{} {
	t.Helper()

	req := models.LoginRequest{
		Email:    email,
		Password: password,
	}

	w := testutil.MakeRequest(t, ah.server.Router, http.MethodPost, "/api/v1/auth/login", req)
	require.Equal(t, http.StatusOK, w.Code, "login should return 200, got: %s", w.Body.String())

	resp := testutil.ParseAPIResponse(t, w)
	require.True(t, resp.Success, "login response should be successful")
	return resp.Data
}

// CreateAuthenticatedUser registers a user and returns its id and access token.
func (ah *AuthHelper) CreateAuthenticatedUser(t *testing.T, name, email, password string) (userID, accessToken string) {
	t.Helper()

	data := ah.RegisterUser(t, name, email, password)

	accessToken, ok := data["accessToken"].(string)
	require.True(t, ok, "accessToken should be a string")

	return GetIDFromResponse(t, data), accessToken
}

// CreateDefaultUser creates a user with default test credentials.
func (ah *AuthHelper) CreateDefaultUser(t *testing.T) (userID, accessToken string) {
	t.Helper()
	return ah.CreateAuthenticatedUser(t, "Test User", "test@example.com", "password123")
}

// TeamHelper provides team-related helpers for API tests.
type TeamHelper struct {
	server *TestServer
}

// NewTeamHelper creates a new team helper.
func NewTeamHelper(server *TestServer) *TeamHelper {
	return &TeamHelper{server: server}
}

// CreateTeam creates a new team and returns the team data. The caller
// becomes its admin.
func (th *TeamHelper) CreateTeam(t *testing.T, token, name string) map[string]interface{} {
	t.Helper()

	req := models.CreateTeamRequest{Name: name}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/teams", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create team should return 201, got: %s", w.Body.String())

	resp := testutil.ParseAPIResponse(t, w)
	require.True(t, resp.Success, "create team response should be successful")
	return resp.Data
}

// AddMember adds userID to the team through the API.
func (th *TeamHelper) AddMember(t *testing.T, token, teamID, userID string, role models.Role) {
	t.Helper()

	req := models.AddMemberRequest{UserID: userID, Role: string(role)}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/teams/"+teamID+"/members", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "add member should return 201, got: %s", w.Body.String())
}

// SeedTeamMember directly inserts a team member into the database.
func (th *TeamHelper) SeedTeamMember(t *testing.T, teamID, userID primitive.ObjectID, role models.Role) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	require.NoError(t, th.server.TeamMemberRepo.Create(context.Background(), member), "failed to seed team member")

	return member
}

// CreateChannel creates a group channel and returns its id.
func (th *TeamHelper) CreateChannel(t *testing.T, token, teamID, name string) string {
	t.Helper()

	req := models.CreateChannelRequest{Name: name, Type: string(models.ChannelTypeGroup)}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/teams/"+teamID+"/channels", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create channel should return 201, got: %s", w.Body.String())

	return GetIDFromResponse(t, testutil.ParseAPIResponse(t, w).Data)
}

// CreateProject creates a project and returns its id.
func (th *TeamHelper) CreateProject(t *testing.T, token, teamID, name string) string {
	t.Helper()

	req := models.CreateProjectRequest{Name: name}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/teams/"+teamID+"/projects", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create project should return 201, got: %s", w.Body.String())

	return GetIDFromResponse(t, testutil.ParseAPIResponse(t, w).Data)
}

// CreateTask creates a task in a project and returns the task data.
func (th *TeamHelper) CreateTask(t *testing.T, token, teamID, projectID string, req models.CreateTaskRequest) map[string]interface{} {
	t.Helper()

	if req.Priority == "" {
		req.Priority = string(models.TaskPriorityMedium)
	}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost,
		"/api/v1/teams/"+teamID+"/projects/"+projectID+"/tasks", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create task should return 201, got: %s", w.Body.String())

	return testutil.ParseAPIResponse(t, w).Data
}

// ParseResponseData is a generic helper to parse response data into a specific type.
func ParseResponseData[T any](t *testing.T, data map[string]interface{}) T {
	t.Helper()

	jsonBytes, err := json.Marshal(data)
	require.NoError(t, err, "failed to marshal response data")

	var result T
	err = json.Unmarshal(jsonBytes, &result)
	require.NoError(t, err, "failed to unmarshal response data")

	return result
}

// GetIDFromResponse extracts the ID from response data.
// It handles both direct ID fields and nested user objects (for auth responses).
func GetIDFromResponse(t *testing.T, data map[string]interface{}) string {
	t.Helper()

	if id, ok := data["id"].(string); ok {
		return id
	}

	if user, ok := data["user"].(map[string]interface{}); ok {
		if id, ok := user["id"].(string); ok {
			return id
		}
	}

	t.Fatal("id should be a string in response data (checked: id, user.id)")
	return ""
}

// ObjectID parses a hex id.
func ObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()

	oid, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err, "failed to parse ObjectID")

	return oid
}
