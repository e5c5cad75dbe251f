package handlers

import (
	"MediLink/middlewares"
	"MediLink/models"
	"MediLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// GetHealthProfile serves a patient's health profile to the patient
// themselves, a treating doctor, or an admin.
func (h *PatientHandler) GetHealthProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	patientID, ok := parseInt64Param(c, "patient_id")
	if !ok {
		return
	}

	profile, err := h.service.GetHealthProfile(c.Request.Context(), patientID, actor.UserID, actor.Role)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateHealthProfile lets the treating doctor update a patient's vitals
// and history.
func (h *PatientHandler) UpdateHealthProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	patientID, ok := parseInt64Param(c, "patient_id")
	if !ok {
		return
	}

	var profile models.HealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.service.UpdateHealthProfile(c.Request.Context(), patientID, actor.UserID,
		&profile, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
