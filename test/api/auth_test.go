//go:build api

package api

import (
	"context"
	"net/http"
	"testing"

	"teamwork/internal/models"
	"teamwork/test/api/testserver"
	"teamwork/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegister tests the POST /api/v1/auth/register endpoint.
func TestRegister(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	t.Run("success - creates new user and returns tokens", func(t *testing.T) {
		req := models.CreateUserRequest{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "password123",
		}

		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/register", req)

		assert.Equal(t, http.StatusCreated, w.Code)

		resp := testutil.ParseAPIResponse(t, w)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Data)

		accessToken, ok := resp.Data["accessToken"].(string)
		assert.True(t, ok, "accessToken should be a string")
		assert.NotEmpty(t, accessToken)

		refreshToken, ok := resp.Data["refreshToken"].(string)
		assert.True(t, ok, "refreshToken should be a string")
		assert.NotEmpty(t, refreshToken)

		expiresIn, ok := resp.Data["expiresIn"].(float64)
		assert.True(t, ok, "expiresIn should be a number")
		assert.Greater(t, expiresIn, float64(0))

		user, ok := resp.Data["user"].(map[string]interface{})
		require.True(t, ok, "user should be an object")
		assert.Equal(t, "test@example.com", user["email"])
		assert.Equal(t, "Test User", user["name"])
		assert.NotEmpty(t, user["id"])
		assert.NotContains(t, user, "password")
	})

	t.Run("error - duplicate email", func(t *testing.T) {
		req := models.CreateUserRequest{
			Name:     "Another User",
			Email:    "test@example.com",
			Password: "password123",
		}

		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/register", req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, testutil.ParseAPIResponse(t, w).Success)
	})

	t.Run("error - missing required fields", func(t *testing.T) {
		req := map[string]string{"email": "test@example.com"}

		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/register", req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, testutil.ParseAPIResponse(t, w).Success)
	})

	t.Run("error - invalid email format", func(t *testing.T) {
		req := models.CreateUserRequest{
			Name:     "Test User",
			Email:    "invalid-email",
			Password: "password123",
		}

		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/register", req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestLogin tests the POST /api/v1/auth/login endpoint.
func TestLogin(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	authHelper.RegisterUser(t, "Login User", "login@example.com", "password123")

	t.Run("success - returns tokens", func(t *testing.T) {
		data := authHelper.Login(t, "login@example.com", "password123")

		assert.NotEmpty(t, data["accessToken"])
		assert.NotEmpty(t, data["refreshToken"])
	})

	t.Run("error - wrong password", func(t *testing.T) {
		req := models.LoginRequest{Email: "login@example.com", Password: "wrongpassword"}

		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/login", req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("error - unknown email looks the same as a wrong password", func(t *testing.T) {
		req := models.LoginRequest{Email: "nobody@example.com", Password: "password123"}

		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/login", req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestRefresh tests refresh token rotation and reuse detection.
func TestRefresh(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	data := authHelper.RegisterUser(t, "Refresh User", "refresh@example.com", "password123")
	original := data["refreshToken"].(string)

	w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/refresh",
		models.RefreshRequest{RefreshToken: original})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rotated, ok := testutil.ParseAPIResponse(t, w).Data["refreshToken"].(string)
	require.True(t, ok)
	assert.NotEqual(t, original, rotated)

	t.Run("reusing a rotated token revokes the family", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/refresh",
			models.RefreshRequest{RefreshToken: original})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/refresh",
			models.RefreshRequest{RefreshToken: rotated})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestLogout tests the POST /api/v1/auth/logout endpoint.
func TestLogout(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	data := authHelper.RegisterUser(t, "Logout User", "logout@example.com", "password123")
	accessToken := data["accessToken"].(string)
	refreshToken := data["refreshToken"].(string)

	t.Run("error - requires authentication", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/logout",
			models.LogoutRequest{RefreshToken: refreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success - refresh token stops working", func(t *testing.T) {
		families, err := testServer.Redis.Keys(context.Background(), "refresh_token:*")
		require.NoError(t, err)
		require.Len(t, families, 1)

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/logout", accessToken,
			models.LogoutRequest{RefreshToken: refreshToken})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/auth/refresh",
			models.RefreshRequest{RefreshToken: refreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		families, err = testServer.Redis.Keys(context.Background(), "refresh_token:*")
		require.NoError(t, err)
		assert.Empty(t, families)
	})
}
