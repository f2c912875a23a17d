package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	notificationapp "github.com/lerp/backend/internal/application/notification"
	"github.com/lerp/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles stock alert notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListUnread godoc
// @Summary      List unread notifications
// @Description  Unread stock alerts, newest first
// @Tags         notifications
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Items per page"
// @Success      200 {object} dto.Response{data=[]notificationapp.NotificationResponse}
// @Router       /notifications [get]
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	notifications, err := h.notificationService.ListUnread(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, notifications)
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=notificationapp.NotificationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, notification)
}
