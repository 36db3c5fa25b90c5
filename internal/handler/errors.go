// Package handler contains HTTP handlers for the API.
package handler

import (
	"net/http"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/middleware"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError writes err using the application's status mapping. Unknown
// errors are recorded on the context for the request logger and reported
// as a bare 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Error(c, status, err.Error())
}

// pathID parses the named path parameter as an ObjectID.
func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInvalidID
	}
	return id, nil
}

// teamAndUser returns the team set by the team authz middleware and the
// authenticated user.
func teamAndUser(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	teamID, ok := middleware.GetTeamID(c)
	if !ok {
		response.BadRequest(c, "team id not found in context")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return teamID, middleware.GetUserObjectID(c), true
}

// queryID parses an optional ObjectID query parameter.
func queryID(c *gin.Context, name string) (*primitive.ObjectID, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}
	return &id, nil
}
