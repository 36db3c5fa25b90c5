package handler

import (
	"teamwork/internal/models"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
)

// TeamMemberHandler handles HTTP requests for team member operations.
type TeamMemberHandler struct {
	service service.TeamMemberServicer
}

// NewTeamMemberHandler creates a new TeamMemberHandler.
func NewTeamMemberHandler(service service.TeamMemberServicer) *TeamMemberHandler {
	return &TeamMemberHandler{service: service}
}

// ListMembers godoc
// @Summary      List team members
// @Description  Retrieve all members of a team with their details
// @Tags         team-members
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Success      200     {object}  response.Response{data=models.TeamMemberListResponse}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/members [get]
func (h *TeamMemberHandler) ListMembers(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.ListMembers(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// AddMember godoc
// @Summary      Add team member
// @Description  Add an existing user to the team with a role. Requires admin role.
// @Tags         team-members
// @Accept       json
// @Produce      json
// @Param        teamId   path      string                   true  "Team ID"
// @Param        request  body      models.AddMemberRequest  true  "User and role"
// @Success      201      {object}  response.Response{data=models.TeamMember}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/members [post]
func (h *TeamMemberHandler) AddMember(c *gin.Context) {
	teamID, actorID, ok := teamAndUser(c)
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), teamID, actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, member)
}

// UpdateRole godoc
// @Summary      Update member role
// @Description  Change a member's role. Requires admin role. The last admin cannot be demoted.
// @Tags         team-members
// @Accept       json
// @Produce      json
// @Param        teamId   path      string                    true  "Team ID"
// @Param        userId   path      string                    true  "User ID"
// @Param        request  body      models.UpdateRoleRequest  true  "New role"
// @Success      200      {object}  response.Response{data=models.TeamMember}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/members/{userId}/role [put]
func (h *TeamMemberHandler) UpdateRole(c *gin.Context) {
	teamID, actorID, ok := teamAndUser(c)
	if !ok {
		return
	}

	targetUserID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.service.UpdateRole(c.Request.Context(), teamID, targetUserID, actorID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, member)
}

// RemoveMember godoc
// @Summary      Remove team member
// @Description  Remove a member from the team. Admins may remove anyone but the last admin; anyone may remove themselves.
// @Tags         team-members
// @Produce      json
// @Param        teamId  path  string  true  "Team ID"
// @Param        userId  path  string  true  "User ID to remove"
// @Success      204     "No Content"
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/members/{userId} [delete]
func (h *TeamMemberHandler) RemoveMember(c *gin.Context) {
	teamID, actorID, ok := teamAndUser(c)
	if !ok {
		return
	}

	targetUserID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), teamID, targetUserID, actorID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// LeaveTeam godoc
// @Summary      Leave team
// @Description  Remove yourself from a team
// @Tags         team-members
// @Produce      json
// @Param        teamId  path  string  true  "Team ID"
// @Success      204     "No Content"
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/leave [post]
func (h *TeamMemberHandler) LeaveTeam(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	if err := h.service.LeaveTeam(c.Request.Context(), teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
