package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/service"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationListResponse bundles the caller's notifications with the
// unread count taken before any bulk mark-read.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// UnreadCountResponse carries the caller's unread notification count.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param mark_all_read query bool false "Mark all notifications read"
// @Success 200 {object} NotificationListResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	_, actor := actorFromContext(c)
	markAllRead := c.QueryParam("mark_all_read") == "true"

	notifications, unread, err := h.notificationService.List(c.Request().Context(), actor, markAllRead)
	if err != nil {
		return httpError(err)
	}

	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, newNotificationResponse(&notifications[i]))
	}
	return c.JSON(http.StatusOK, NotificationListResponse{
		Notifications: out,
		UnreadCount:   unread,
	})
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} NotificationResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	_, actor := actorFromContext(c)
	notification, err := h.notificationService.MarkRead(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newNotificationResponse(notification))
}

// Delete godoc
// @Summary Delete a notification
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	_, actor := actorFromContext(c)
	if err := h.notificationService.Delete(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnreadCount godoc
// @Summary Count the caller's unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UnreadCountResponse
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	_, actor := actorFromContext(c)
	count, err := h.notificationService.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UnreadCountResponse{UnreadCount: count})
}
