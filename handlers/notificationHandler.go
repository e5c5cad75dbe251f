package handlers

import (
	"MediLink/middlewares"
	"MediLink/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Unread returns the newest unread notifications for the actor, newest first.
func (h *NotificationHandler) Unread(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	notifications, err := h.service.Unread(c.Request.Context(), actor.UserID, limit)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead flips a batch of the actor's notifications to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var payload struct {
		IDs []uint `json:"ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), actor.UserID, payload.IDs); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Count serves the badge counter.
func (h *NotificationHandler) Count(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), actor.UserID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
