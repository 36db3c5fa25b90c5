package handler

import (
	"strconv"

	"teamwork/internal/middleware"
	"teamwork/internal/models"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles HTTP requests for team operations.
type TeamHandler struct {
	service service.TeamServicer
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(service service.TeamServicer) *TeamHandler {
	return &TeamHandler{service: service}
}

// CreateTeam godoc
// @Summary      Create a new team
// @Description  Create a team. The creator becomes its first admin.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateTeamRequest  true  "Team details"
// @Success      201      {object}  response.Response{data=models.Team}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), middleware.GetUserObjectID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, team)
}

// ListTeams godoc
// @Summary      List user's teams
// @Description  Retrieve paginated list of teams the authenticated user belongs to
// @Tags         teams
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 10, max: 50)"
// @Success      200    {object}  response.Response{data=models.TeamListResponse}
// @Failure      401    {object}  response.Response
// @Failure      500    {object}  response.Response
// @Security     BearerAuth
// @Router       /teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.service.ListTeams(c.Request.Context(), middleware.GetUserObjectID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetTeam godoc
// @Summary      Get team details
// @Description  Retrieve a team with its members. Requires team membership.
// @Tags         teams
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Success      200     {object}  response.Response{data=models.TeamDetails}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, exists := middleware.GetTeamID(c)
	if !exists {
		response.BadRequest(c, "team id not found in context")
		return
	}

	team, err := h.service.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, team)
}

// UpdateTeam godoc
// @Summary      Update team
// @Description  Update team name or description. Requires admin role.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        teamId   path      string                    true  "Team ID"
// @Param        request  body      models.UpdateTeamRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=models.Team}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, exists := middleware.GetTeamID(c)
	if !exists {
		response.BadRequest(c, "team id not found in context")
		return
	}

	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.service.UpdateTeam(c.Request.Context(), teamID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, team)
}

// DeleteTeam godoc
// @Summary      Delete team
// @Description  Delete a team with its members, channels, messages, projects and tasks. Requires admin role.
// @Tags         teams
// @Produce      json
// @Param        teamId  path  string  true  "Team ID"
// @Success      204     "No Content"
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, exists := middleware.GetTeamID(c)
	if !exists {
		response.BadRequest(c, "team id not found in context")
		return
	}

	if err := h.service.DeleteTeam(c.Request.Context(), teamID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
