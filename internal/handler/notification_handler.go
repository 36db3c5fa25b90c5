package handler

import (
	"strconv"
	"strings"

	"teamwork/internal/middleware"
	"teamwork/internal/models"
	"teamwork/internal/service"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles HTTP requests for the caller's notifications.
type NotificationHandler struct {
	service service.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service service.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// MarkAllReadResponse reports how many notifications changed.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated" example:"4"`
}

// ListNotifications godoc
// @Summary      List notifications
// @Description  List your notifications, newest first, with the total and unread counts
// @Tags         notifications
// @Produce      json
// @Param        limit       query     int     false  "Page size (default: 20, max: 100)"
// @Param        offset      query     int     false  "Items to skip"
// @Param        unreadOnly  query     bool    false  "Only unread notifications"
// @Param        types       query     string  false  "Comma-separated notification types"
// @Success      200         {object}  response.Response{data=models.NotificationListResponse}
// @Failure      401         {object}  response.Response
// @Failure      500         {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	opts := models.NotificationListOptions{}
	opts.Limit, _ = strconv.Atoi(c.Query("limit"))
	opts.Offset, _ = strconv.Atoi(c.Query("offset"))
	opts.UnreadOnly, _ = strconv.ParseBool(c.Query("unreadOnly"))
	for _, v := range c.QueryArray("types") {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				opts.Types = append(opts.Types, models.NotificationType(t))
			}
		}
	}

	result, err := h.service.ListNotifications(c.Request.Context(), middleware.GetUserObjectID(c), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// MarkRead godoc
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response{data=models.Notification}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), id, middleware.GetUserObjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, n)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response{data=MarkAllReadResponse}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.service.MarkAllRead(c.Request.Context(), middleware.GetUserObjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, MarkAllReadResponse{Updated: updated})
}

// DeleteNotification godoc
// @Summary      Delete notification
// @Tags         notifications
// @Produce      json
// @Param        id   path  string  true  "Notification ID"
// @Success      204  "No Content"
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteNotification(c.Request.Context(), id, middleware.GetUserObjectID(c)); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
