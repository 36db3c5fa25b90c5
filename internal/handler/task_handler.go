package handler

import (
	"teamwork/internal/models"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service service.TaskServicer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service service.TaskServicer) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask godoc
// @Summary      Create task
// @Description  Create a task or subtask in a project. Requires admin or member role.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                    true  "Team ID"
// @Param        projectId  path      string                    true  "Project ID"
// @Param        request    body      models.CreateTaskRequest  true  "Task details"
// @Success      201        {object}  response.Response{data=models.Task}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), teamID, projectID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, task)
}

// ListTasks godoc
// @Summary      List tasks
// @Description  List a project's tasks. Top-level tasks only unless parentId is given.
// @Tags         tasks
// @Produce      json
// @Param        teamId      path      string  true   "Team ID"
// @Param        projectId   path      string  true   "Project ID"
// @Param        status      query     string  false  "Filter by status"
// @Param        priority    query     string  false  "Filter by priority"
// @Param        assignedTo  query     string  false  "Filter by assignee ID"
// @Param        parentId    query     string  false  "List subtasks of this task"
// @Param        phaseId     query     string  false  "Filter by project phase"
// @Param        search      query     string  false  "Case-insensitive title search"
// @Success      200         {object}  response.Response{data=models.TaskListResponse}
// @Failure      400         {object}  response.Response
// @Failure      401         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Failure      500         {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/projects/{projectId}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, err)
		return
	}

	params := models.TaskListParams{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if params.Status != "" && !models.TaskStatus(params.Status).IsValid() {
		response.BadRequest(c, "invalid task status")
		return
	}
	if params.Priority != "" && !models.TaskPriority(params.Priority).IsValid() {
		response.BadRequest(c, "invalid task priority")
		return
	}
	if params.AssignedTo, err = queryID(c, "assignedTo"); err != nil {
		respondError(c, err)
		return
	}
	if params.ParentID, err = queryID(c, "parentId"); err != nil {
		respondError(c, err)
		return
	}
	if params.PhaseID, err = queryID(c, "phaseId"); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.ListTasks(c.Request.Context(), teamID, projectID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetTask godoc
// @Summary      Get task
// @Description  Get a task with its direct subtasks
// @Tags         tasks
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Param        taskId  path      string  true  "Task ID"
// @Success      200     {object}  response.Response{data=models.TaskWithSubtasks}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/tasks/{taskId} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	taskID, err := pathID(c, "taskId")
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), teamID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, task)
}

// UpdateTask godoc
// @Summary      Update task
// @Description  Update a task. Requires admin or member role.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        teamId   path      string                    true  "Team ID"
// @Param        taskId   path      string                    true  "Task ID"
// @Param        request  body      models.UpdateTaskRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=models.Task}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	taskID, err := pathID(c, "taskId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), teamID, taskID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, task)
}

// DeleteTask godoc
// @Summary      Delete task
// @Description  Delete a task and its subtasks. Allowed for the task's creator or a team admin.
// @Tags         tasks
// @Produce      json
// @Param        teamId  path  string  true  "Team ID"
// @Param        taskId  path  string  true  "Task ID"
// @Success      204     "No Content"
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	taskID, err := pathID(c, "taskId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), teamID, taskID, userID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
