package handlers

import (
	"MediLink/middlewares"
	"MediLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// ListApproved returns the bookable doctors.
func (h *DoctorHandler) ListApproved(c *gin.Context) {
	profiles, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetOwnProfile returns the acting doctor's profile.
func (h *DoctorHandler) GetOwnProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateOwnProfile edits the acting doctor's specialization, availability,
// and fee. Approval state is not reachable from here.
func (h *DoctorHandler) UpdateOwnProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var payload struct {
		Specialization string  `json:"specialization"`
		Availability   string  `json:"availability"`
		Fee            float64 `json:"consultation_fee"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.service.UpdateOwnProfile(c.Request.Context(), actor.UserID,
		payload.Specialization, payload.Availability, payload.Fee,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
