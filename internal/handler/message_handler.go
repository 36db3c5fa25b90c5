package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"teamwork/internal/models"
	"teamwork/internal/realtime"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreamRegistry tracks websocket subscribers per channel.
type StreamRegistry interface {
	Register(stream realtime.Stream, client realtime.Subscriber)
	Unregister(client realtime.Subscriber)
}

// MessageHandler handles HTTP requests for channel messages and the
// channel event stream.
type MessageHandler struct {
	service  service.MessageServicer
	channels service.ChannelServicer
	streams  StreamRegistry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewMessageHandler creates a new MessageHandler. streams may be nil, in
// which case the stream endpoint answers 503.
func NewMessageHandler(service service.MessageServicer, channels service.ChannelServicer, streams StreamRegistry, logger *slog.Logger) *MessageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageHandler{
		service:  service,
		channels: channels,
		streams:  streams,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// CreateMessage godoc
// @Summary      Post message
// @Description  Post a message to a channel. A future scheduledFor holds the message until it is due. When an attachment is declared the response carries a presigned upload URL.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                       true  "Team ID"
// @Param        channelId  path      string                       true  "Channel ID"
// @Param        request    body      models.CreateMessageRequest  true  "Message"
// @Success      201        {object}  response.Response{data=models.MessageResponse}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId}/messages [post]
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, err := pathID(c, "channelId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.CreateMessage(c.Request.Context(), teamID, channelID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, msg)
}

// ListMessages godoc
// @Summary      List messages
// @Description  List delivered messages of a channel in chronological order. Use before or after (a message ID) to page.
// @Tags         messages
// @Produce      json
// @Param        teamId     path      string  true   "Team ID"
// @Param        channelId  path      string  true   "Channel ID"
// @Param        limit      query     int     false  "Page size (default: 50, max: 200)"
// @Param        before     query     string  false  "Only messages older than this message"
// @Param        after      query     string  false  "Only messages newer than this message"
// @Success      200        {object}  response.Response{data=models.MessageListResponse}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId}/messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, err := pathID(c, "channelId")
	if err != nil {
		respondError(c, err)
		return
	}

	opts := models.MessageListOptions{}
	opts.Limit, _ = strconv.Atoi(c.Query("limit"))
	if opts.Before, err = queryID(c, "before"); err != nil {
		respondError(c, err)
		return
	}
	if opts.After, err = queryID(c, "after"); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.ListMessages(c.Request.Context(), teamID, channelID, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetMessage godoc
// @Summary      Get message
// @Description  Get one message. Messages with an attachment carry a presigned download URL.
// @Tags         messages
// @Produce      json
// @Param        teamId     path      string  true  "Team ID"
// @Param        channelId  path      string  true  "Channel ID"
// @Param        messageId  path      string  true  "Message ID"
// @Success      200        {object}  response.Response{data=models.MessageResponse}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId}/messages/{messageId} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	teamID, _, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, messageID, err := channelAndMessage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.service.GetMessage(c.Request.Context(), teamID, channelID, messageID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, msg)
}

// UpdateMessage godoc
// @Summary      Edit message
// @Description  Edit a message. Only its author may edit it.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        teamId     path      string                       true  "Team ID"
// @Param        channelId  path      string                       true  "Channel ID"
// @Param        messageId  path      string                       true  "Message ID"
// @Param        request    body      models.UpdateMessageRequest  true  "New content"
// @Success      200        {object}  response.Response{data=models.Message}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId}/messages/{messageId} [put]
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, messageID, err := channelAndMessage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.UpdateMessage(c.Request.Context(), teamID, channelID, messageID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, msg)
}

// DeleteMessage godoc
// @Summary      Delete message
// @Description  Delete a message. Its author or a team admin may delete it.
// @Tags         messages
// @Produce      json
// @Param        teamId     path  string  true  "Team ID"
// @Param        channelId  path  string  true  "Channel ID"
// @Param        messageId  path  string  true  "Message ID"
// @Success      204        "No Content"
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId}/messages/{messageId} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, messageID, err := channelAndMessage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), teamID, channelID, messageID, userID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// Stream godoc
// @Summary      Channel event stream
// @Description  Upgrade to a websocket that receives message.created, message.updated and message.deleted events for the channel. Browsers may pass the access token as the access_token query parameter.
// @Tags         messages
// @Param        teamId     path  string  true  "Team ID"
// @Param        channelId  path  string  true  "Channel ID"
// @Success      101        "Switching Protocols"
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      503        {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{teamId}/channels/{channelId}/stream [get]
func (h *MessageHandler) Stream(c *gin.Context) {
	teamID, userID, ok := teamAndUser(c)
	if !ok {
		return
	}

	channelID, err := pathID(c, "channelId")
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.channels.GetChannel(c.Request.Context(), teamID, channelID); err != nil {
		respondError(c, err)
		return
	}

	if h.streams == nil {
		response.Error(c, http.StatusServiceUnavailable, "streaming is not available")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := realtime.NewClient(conn, h.logger.With("channel_id", channelID.Hex(), "user_id", userID.Hex()))
	h.streams.Register(realtime.Stream{TeamID: teamID, ChannelID: channelID, UserID: userID}, client)
	defer h.streams.Unregister(client)

	client.Run()
}

func channelAndMessage(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, error) {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	messageID, err := pathID(c, "messageId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return channelID, messageID, nil
}
