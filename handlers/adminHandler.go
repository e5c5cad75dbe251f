package handlers

import (
	"MediLink/middlewares"
	"MediLink/models"
	"MediLink/repositories"
	"MediLink/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userService   services.UserService
	doctorService *services.DoctorService
	reportService *services.ReportService
	auditRepo     *repositories.AuditLogRepository
}

func NewAdminHandler(userService services.UserService, doctorService *services.DoctorService, reportService *services.ReportService, auditRepo *repositories.AuditLogRepository) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		doctorService: doctorService,
		reportService: reportService,
		auditRepo:     auditRepo,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) SetVerified(c *gin.Context) {
	h.setUserFlag(c, "set_verified", func(userID int64, value bool) error {
		return h.userService.SetVerified(c.Request.Context(), userID, value)
	})
}

func (h *AdminHandler) SetSuspended(c *gin.Context) {
	h.setUserFlag(c, "set_suspended", func(userID int64, value bool) error {
		return h.userService.SetSuspended(c.Request.Context(), userID, value)
	})
}

func (h *AdminHandler) setUserFlag(c *gin.Context, action string, apply func(int64, bool) error) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	userID, ok := parseInt64Param(c, "user_id")
	if !ok {
		return
	}

	var payload struct {
		Value bool `json:"value"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := apply(userID, payload.Value); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	h.auditRepo.Record(c.Request.Context(), actor.UserID, action,
		models.User{}.TableName(), userID, c.ClientIP(), c.Request.UserAgent())
	c.Status(http.StatusOK)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	userID, ok := parseInt64Param(c, "user_id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	h.auditRepo.Record(c.Request.Context(), actor.UserID, "delete_user",
		models.User{}.TableName(), userID, c.ClientIP(), c.Request.UserAgent())
	c.Status(http.StatusNoContent)
}

// ListPendingDoctors returns the approval queue.
func (h *AdminHandler) ListPendingDoctors(c *gin.Context) {
	profiles, err := h.doctorService.ListPending(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// SetDoctorApproval approves or rejects a doctor account.
func (h *AdminHandler) SetDoctorApproval(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	doctorUserID, ok := parseInt64Param(c, "user_id")
	if !ok {
		return
	}

	var payload struct {
		Approved bool `json:"approved"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, err := h.doctorService.SetApproval(c.Request.Context(), doctorUserID, actor.UserID,
		payload.Approved, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Stats returns the reporting snapshot as JSON.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.Stats(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AuditLog lists the newest audit entries.
func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.reportService.RecentAuditEntries(c.Request.Context(), limit)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
