package handlers

import (
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/pagination"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles listing the acting user's notifications
// @Summary My notifications
// @Description List the authenticated user's notifications, newest first
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	notifications, total, err := h.notificationService.ListForUser(c.Context(), user, params.Offset, params.Limit)
	if err != nil {
		return domainError(c, err)
	}

	unread, err := h.notificationService.CountUnread(c.Context(), user)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Notifications retrieved successfully", fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
		"meta":          pagination.GetMeta(params, total),
	})
}

// MarkRead handles marking one notification as read
// @Summary Mark notification read
// @Description Mark one of the authenticated user's notifications as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), user, id); err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Notification marked as read", nil)
}
