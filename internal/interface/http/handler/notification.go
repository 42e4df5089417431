package handler

import (
	"github.com/gin-gonic/gin"

	appnotification "github.com/boipara/bookstore/internal/application/notification"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/response"
)

type NotificationHandler struct {
	inboxUseCase *appnotification.InboxUseCase
}

// NewNotificationHandler creates the notification handler.
func NewNotificationHandler(inboxUseCase *appnotification.InboxUseCase) *NotificationHandler {
	return &NotificationHandler{inboxUseCase: inboxUseCase}
}

// List
// @Summary      My notifications
// @Description  Newest first, at most 50
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appnotification.NotificationDTO}
// @Router       /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	result, err := h.inboxUseCase.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UnreadCount
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.UnreadCountResponse}
// @Router       /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.inboxUseCase.UnreadCount(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UnreadCountResponse{Count: count})
}

// MarkRead
// @Summary      Mark one notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "notification id"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /api/v1/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.inboxUseCase.MarkRead(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.MarkAllReadResponse}
// @Router       /api/v1/notifications/mark-all-read [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.inboxUseCase.MarkAllRead(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.MarkAllReadResponse{Updated: updated})
}

// Delete
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "notification id"
// @Success      200 {object} response.Response
// @Router       /api/v1/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.inboxUseCase.Delete(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
