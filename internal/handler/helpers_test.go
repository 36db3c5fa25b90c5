package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamwork/internal/middleware"
	"teamwork/internal/models"
	"teamwork/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = validator.RegisterCustomValidators()
}

// asUser stands in for the auth middleware.
func asUser(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !userID.IsZero() {
			c.Set(middleware.UserIDKey, userID.Hex())
		}
		c.Next()
	}
}

// inTeam stands in for the team authz middleware.
func inTeam(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, err := primitive.ObjectIDFromHex(c.Param("teamId"))
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Set(middleware.TeamIDKey, teamID)
		c.Set(middleware.TeamRoleKey, role)
		c.Next()
	}
}

func performRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
