package handler

import (
	"teamwork/internal/models"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
)

// ChannelHandler handles HTTP requests for channel operations.
type ChannelHandler struct {
	service service.ChannelServicer
}

// NewChannelHandler creates a new ChannelHandler.
func NewChannelHandler(service service.ChannelServicer) *ChannelHandler {
	return &ChannelHandler{service: service}
}

// CreateChannel godoc
// @Summary      Create channel
// @Description  Create a channel in the team. Any member may create one.
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        teamId   path      string                       true  "Team ID"
// @Param        request  body      models.CreateChannelRequest  true  "Channel details"
// @Success      201      {object}  response.Response{data=models.Channel}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels [post]
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	var req models.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	channel, err := h.service.CreateChannel(c.Request.Context(), teamID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, channel)
}

// ListChannels godoc
// @Summary      List channels
// @Description  List the team's channels with their message counts
// @Tags         channels
// @Produce      json
// @Param        teamId  path      string  true  "Team ID"
// @Success      200     {object}  response.Response{data=models.ChannelListResponse}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels [get]
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.ListChannels(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetChannel godoc
// @Summary      Get channel
// @Tags         channels
// @Produce      json
// @Param        teamId     path      string  true  "Team ID"
// @Param        channelId  path      string  true  "Channel ID"
// @Success      200        {object}  response.Response{data=models.Channel}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId} [get]
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, err := pathID(c, "channelId")
	if err != nil {
		respondError(c, err)
		return
	}

	channel, err := h.service.GetChannel(c.Request.Context(), teamID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, channel)
}

// UpdateChannel godoc
// @Summary      Update channel
// @Description  Rename or retype a channel. Requires admin role.
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                       true  "Team ID"
// @Param        channelId  path      string                       true  "Channel ID"
// @Param        request    body      models.UpdateChannelRequest  true  "Fields to update"
// @Success      200        {object}  response.Response{data=models.Channel}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId} [put]
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, err := pathID(c, "channelId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	channel, err := h.service.UpdateChannel(c.Request.Context(), teamID, channelID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, channel)
}

// DeleteChannel godoc
// @Summary      Delete channel
// @Description  Delete a channel and all of its messages. Requires admin role.
// @Tags         channels
// @Produce      json
// @Param        teamId     path  string  true  "Team ID"
// @Param        channelId  path  string  true  "Channel ID"
// @Success      204        "No Content"
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId} [delete]
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, err := pathID(c, "channelId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteChannel(c.Request.Context(), teamID, channelID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
