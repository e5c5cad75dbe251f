package controllers

import (
	"MediLink/handlers"
	"MediLink/middlewares"
	"MediLink/models"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers the admin-only management surface.
func SetupAdminRoutes(router *gin.Engine, adminHandler *handlers.AdminHandler, settingsHandler *handlers.SettingsHandler) {
	adminGroup := router.Group("/admin").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleAdmin),
	)
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.PUT("/users/:user_id/verified", adminHandler.SetVerified)
		adminGroup.PUT("/users/:user_id/suspended", adminHandler.SetSuspended)
		adminGroup.DELETE("/users/:user_id", adminHandler.DeleteUser)

		adminGroup.GET("/doctors/pending", adminHandler.ListPendingDoctors)
		adminGroup.PUT("/doctors/:user_id/approval", adminHandler.SetDoctorApproval)

		adminGroup.GET("/stats", adminHandler.Stats)
		adminGroup.GET("/audit-log", adminHandler.AuditLog)

		adminGroup.GET("/settings", settingsHandler.List)
		adminGroup.GET("/settings/:key", settingsHandler.Get)
		adminGroup.PUT("/settings/:key", settingsHandler.Update)
	}
}
