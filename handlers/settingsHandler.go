package handlers

import (
	"MediLink/middlewares"
	"MediLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service *services.SettingsService
}

func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// List returns every setting; admin-only.
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Get returns a single setting value.
func (h *SettingsHandler) Get(c *gin.Context) {
	value, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// Update upserts a setting; admin-only and audited.
func (h *SettingsHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var payload struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.service.Set(c.Request.Context(), c.Param("key"), payload.Value,
		actor.UserID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
