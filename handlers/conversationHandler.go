package handlers

import (
	"MediLink/middlewares"
	"MediLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Start opens a conversation with the given counterpart.
func (h *ConversationHandler) Start(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var payload struct {
		CounterpartID int64 `json:"counterpart_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	conversation, err := h.service.Start(c.Request.Context(), actor.UserID, payload.CounterpartID,
		actor.Role, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

func (h *ConversationHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	conversations, err := h.service.ListForUser(c.Request.Context(), actor.UserID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// GetMessages returns the thread and, as a side effect, marks every message
// not sent by the viewer as read.
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "conversation_id")
	if !ok {
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), id, actor.UserID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// PostMessage appends a message to the conversation.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "conversation_id")
	if !ok {
		return
	}

	var payload struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	message, err := h.service.PostMessage(c.Request.Context(), id, actor.UserID,
		payload.Body, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// Status is the cheap polling endpoint: latest message id plus unread
// count. Clients poll it and reload the thread when the id advances.
func (h *ConversationHandler) Status(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "conversation_id")
	if !ok {
		return
	}

	status, err := h.service.Status(c.Request.Context(), id, actor.UserID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Close ends the conversation. Doctor-only; closing is terminal.
func (h *ConversationHandler) Close(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "conversation_id")
	if !ok {
		return
	}

	conversation, err := h.service.Close(c.Request.Context(), id, actor.UserID,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversation)
}
