package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/middleware"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/services"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// @Summary List the caller's notifications
// @Description Returns notifications addressed to the caller plus broadcasts
// @Description for their role, newest first.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	query := listQueryFrom(c)
	if c.Query("unread") == "true" {
		query.Filters["unread"] = "true"
	}

	notifications, total, err := h.notifications.ListForUser(
		c.Request.Context(), middleware.GetUserID(c), middleware.GetUserRole(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, notifications[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "total": total})
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.CountUnread(
		c.Request.Context(), middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAsRead godoc
// @Summary Mark a notification read
// @Description Marking an already read notification is a no-op.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的編號", "code": services.CodeValidation})
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllAsRead godoc
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 204
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notifications.MarkAllAsRead(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
