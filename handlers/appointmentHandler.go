package handlers

import (
	"MediLink/middlewares"
	"MediLink/models"
	"MediLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Book creates an appointment for the authenticated patient.
func (h *AppointmentHandler) Book(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var payload struct {
		DoctorID  int64  `json:"doctor_id"`
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	appointment := models.Appointment{
		PatientID: actor.UserID,
		DoctorID:  payload.DoctorID,
		Date:      payload.Date,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Reason:    payload.Reason,
	}

	if err := h.service.Book(c.Request.Context(), &appointment, c.ClientIP(), c.Request.UserAgent()); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// List returns the appointments visible to the actor: their own for
// patients and doctors, everything for admins. Ordered by (date, start_time).
func (h *AppointmentHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var appointments []models.Appointment
	var err error
	switch actor.Role {
	case models.RolePatient:
		appointments, err = h.service.ListForPatient(ctx, actor.UserID)
	case models.RoleDoctor:
		appointments, err = h.service.ListForDoctor(ctx, actor.UserID)
	default:
		appointments, err = h.service.ListAll(ctx)
	}
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) GetByID(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "appointment_id")
	if !ok {
		return
	}

	appointment, err := h.service.GetByID(c.Request.Context(), id, actor.UserID, actor.Role)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// UpdateStatus sets the appointment status. Only the owning doctor or an
// admin gets through; the repository treats everyone else as not found.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "appointment_id")
	if !ok {
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.service.UpdateStatus(c.Request.Context(), id, payload.Status,
		actor.UserID, actor.Role, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
