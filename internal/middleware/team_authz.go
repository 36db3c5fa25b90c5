package middleware

import (
	"net/http"

	"teamwork/internal/authz"
	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing team data
const (
	TeamIDKey   = "teamID"
	TeamRoleKey = "teamRole"
)

// TeamAuthz returns a middleware that requires the caller to hold one of the
// roles in required for the team named by the :teamId path parameter.
func TeamAuthz(authorizer authz.Authorizer, required authz.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, err := primitive.ObjectIDFromHex(c.Param("teamId"))
		if err != nil {
			abortWithError(c, apperrors.ErrInvalidID)
			return
		}

		member, err := authorizer.Authorize(c.Request.Context(), teamID, GetUserObjectID(c), required)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(TeamIDKey, teamID)
		c.Set(TeamRoleKey, member.Role)

		c.Next()
	}
}

// TeamMember returns a middleware that only checks team membership (any role).
func TeamMember(authorizer authz.Authorizer) gin.HandlerFunc {
	return TeamAuthz(authorizer, authz.AnyMember)
}

// GetTeamID retrieves the team ID from the context.
func GetTeamID(c *gin.Context) (primitive.ObjectID, bool) {
	teamID, exists := c.Get(TeamIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := teamID.(primitive.ObjectID)
	return id, ok
}

// GetTeamRole retrieves the user's team role from the context.
func GetTeamRole(c *gin.Context) models.Role {
	role, exists := c.Get(TeamRoleKey)
	if !exists {
		return ""
	}
	r, _ := role.(models.Role)
	return r
}

func abortWithError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		response.InternalError(c)
	} else {
		response.Error(c, status, err.Error())
	}
	c.Abort()
}
