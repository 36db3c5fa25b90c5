// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	apperrors "teamwork/internal/errors"
	"teamwork/pkg/auth"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing user data
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
)

// Auth returns a middleware that validates bearer access tokens.
func Auth(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && websocket.IsWebSocketUpgrade(c.Request) {
			// Browsers cannot set headers on a websocket handshake.
			if token := c.Query("access_token"); token != "" {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			if auth.IsExpired(err) {
				abortWithError(c, apperrors.ErrTokenExpired)
			} else {
				abortWithError(c, apperrors.ErrInvalidToken)
			}
			return
		}

		if _, err := primitive.ObjectIDFromHex(claims.UserID); err != nil {
			abortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not found.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	s, _ := userID.(string)
	return s
}

// GetUserObjectID returns the authenticated user's ID, or NilObjectID when
// the request is unauthenticated.
func GetUserObjectID(c *gin.Context) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(GetUserID(c))
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
