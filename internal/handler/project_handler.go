package handler

import (
	"strconv"

	"teamwork/internal/models"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service service.ProjectServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service service.ProjectServicer) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// CreateProject godoc
// @Summary      Create project
// @Description  Create a project in the team. Requires admin or member role.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        teamId   path      string                       true  "Team ID"
// @Param        request  body      models.CreateProjectRequest  true  "Project details"
// @Success      201      {object}  response.Response{data=models.Project}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), teamID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, project)
}

// ListProjects godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        teamId  path      string  true   "Team ID"
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Case-insensitive name search"
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 10, max: 50)"
// @Success      200     {object}  response.Response{data=models.ProjectListResponse}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	params := models.ProjectListParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if params.Status != "" && !models.ProjectStatus(params.Status).IsValid() {
		response.BadRequest(c, "invalid project status")
		return
	}

	result, err := h.service.ListProjects(c.Request.Context(), teamID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetProject godoc
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        teamId     path      string  true  "Team ID"
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=models.Project}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, err)
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), teamID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, project)
}

// UpdateProject godoc
// @Summary      Update project
// @Description  Update a project. Requires admin or member role.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                       true  "Team ID"
// @Param        projectId  path      string                       true  "Project ID"
// @Param        request    body      models.UpdateProjectRequest  true  "Fields to update"
// @Success      200        {object}  response.Response{data=models.Project}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.service.UpdateProject(c.Request.Context(), teamID, projectID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, project)
}

// DeleteProject godoc
// @Summary      Delete project
// @Description  Delete a project and all of its tasks. Requires admin role.
// @Tags         projects
// @Produce      json
// @Param        teamId     path  string  true  "Team ID"
// @Param        projectId  path  string  true  "Project ID"
// @Success      204        "No Content"
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), teamID, projectID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// projectPath reads the team from context and the project from the path.
func projectPath(c *gin.Context) (teamID, projectID primitive.ObjectID, ok bool) {
	teamID, _, ok = teamAndUser(c)
	if !ok {
		return
	}
	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, err)
		return teamID, projectID, false
	}
	return teamID, projectID, true
}

// ListPhases godoc
// @Summary      List project phases
// @Description  Phases are returned in ascending order.
// @Tags         phases
// @Produce      json
// @Param        teamId     path      string  true  "Team ID"
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=models.PhaseListResponse}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/phases [get]
func (h *ProjectHandler) ListPhases(c *gin.Context) {
	teamID, projectID, ok := projectPath(c)
	if !ok {
		return
	}

	result, err := h.service.ListPhases(c.Request.Context(), teamID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// CreatePhase godoc
// @Summary      Create project phase
// @Description  Add a phase to a project. Requires admin or member role.
// @Tags         phases
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                     true  "Team ID"
// @Param        projectId  path      string                     true  "Project ID"
// @Param        request    body      models.CreatePhaseRequest  true  "Phase details"
// @Success      201        {object}  response.Response{data=models.ProjectPhase}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/phases [post]
func (h *ProjectHandler) CreatePhase(c *gin.Context) {
	teamID, projectID, ok := projectPath(c)
	if !ok {
		return
	}

	var req models.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	phase, err := h.service.CreatePhase(c.Request.Context(), teamID, projectID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, phase)
}

// GetPhase godoc
// @Summary      Get project phase
// @Tags         phases
// @Produce      json
// @Param        teamId     path      string  true  "Team ID"
// @Param        projectId  path      string  true  "Project ID"
// @Param        phaseId    path      string  true  "Phase ID"
// @Success      200        {object}  response.Response{data=models.ProjectPhase}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/phases/{phaseId} [get]
func (h *ProjectHandler) GetPhase(c *gin.Context) {
	teamID, projectID, ok := projectPath(c)
	if !ok {
		return
	}
	phaseID, err := pathID(c, "phaseId")
	if err != nil {
		respondError(c, err)
		return
	}

	phase, err := h.service.GetPhase(c.Request.Context(), teamID, projectID, phaseID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, phase)
}

// UpdatePhase godoc
// @Summary      Update project phase
// @Description  Update a phase. Requires admin or member role.
// @Tags         phases
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                     true  "Team ID"
// @Param        projectId  path      string                     true  "Project ID"
// @Param        phaseId    path      string                     true  "Phase ID"
// @Param        request    body      models.UpdatePhaseRequest  true  "Fields to update"
// @Success      200        {object}  response.Response{data=models.ProjectPhase}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/phases/{phaseId} [put]
func (h *ProjectHandler) UpdatePhase(c *gin.Context) {
	teamID, projectID, ok := projectPath(c)
	if !ok {
		return
	}
	phaseID, err := pathID(c, "phaseId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	phase, err := h.service.UpdatePhase(c.Request.Context(), teamID, projectID, phaseID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, phase)
}

// DeletePhase godoc
// @Summary      Delete project phase
// @Description  Delete a phase. Its tasks stay in the project without a phase. Requires admin or member role.
// @Tags         phases
// @Produce      json
// @Param        teamId     path  string  true  "Team ID"
// @Param        projectId  path  string  true  "Project ID"
// @Param        phaseId    path  string  true  "Phase ID"
// @Success      204        "No Content"
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/phases/{phaseId} [delete]
func (h *ProjectHandler) DeletePhase(c *gin.Context) {
	teamID, projectID, ok := projectPath(c)
	if !ok {
		return
	}
	phaseID, err := pathID(c, "phaseId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeletePhase(c.Request.Context(), teamID, projectID, phaseID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
