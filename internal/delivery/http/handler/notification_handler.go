package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"transport-manager/internal/usecase/notification"
	"transport-manager/pkg/utils"
)

type NotificationHandler struct {
	service *notification.Service
}

func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// ListNotifications returns the inbox of the authenticated user. An agent may
// pass ?client_id= to inspect a client's notifications instead.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if raw := c.Query("client_id"); raw != "" {
		role, _ := c.Get("role")
		if role != "admin" && role != "agent" {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		clientID, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid client ID")
			return
		}

		notifications, total, err := h.service.ListForClient(c.Request.Context(), clientID, unreadOnly, page, pageSize)
		if err != nil {
			handleError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "Notifications retrieved successfully", gin.H{
			"notifications": notifications,
			"total":         total,
		})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	notifications, total, err := h.service.ListForUser(c.Request.Context(), userID, unreadOnly, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notifications retrieved successfully", gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}
