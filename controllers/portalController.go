package controllers

import (
	"MediLink/handlers"
	"MediLink/middlewares"
	"MediLink/models"

	"github.com/gin-gonic/gin"
)

// SetupPortalRoutes registers the patient/doctor-facing routes. Every route
// sits behind the session guard; role gates are applied per route.
func SetupPortalRoutes(
	router *gin.Engine,
	appointmentHandler *handlers.AppointmentHandler,
	conversationHandler *handlers.ConversationHandler,
	notificationHandler *handlers.NotificationHandler,
	doctorHandler *handlers.DoctorHandler,
	patientHandler *handlers.PatientHandler,
) {
	portal := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		// Appointments
		portal.POST("/appointments", middlewares.RoleAuthMiddleware(models.RolePatient), appointmentHandler.Book)
		portal.GET("/appointments", appointmentHandler.List)
		portal.GET("/appointments/:appointment_id", appointmentHandler.GetByID)
		portal.PUT("/appointments/:appointment_id/status",
			middlewares.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
			appointmentHandler.UpdateStatus)

		// Conversations
		portal.POST("/conversations", conversationHandler.Start)
		portal.GET("/conversations", conversationHandler.List)
		portal.GET("/conversations/:conversation_id/messages", conversationHandler.GetMessages)
		portal.POST("/conversations/:conversation_id/messages", conversationHandler.PostMessage)
		portal.GET("/conversations/:conversation_id/status", conversationHandler.Status)
		portal.POST("/conversations/:conversation_id/close",
			middlewares.RoleAuthMiddleware(models.RoleDoctor),
			conversationHandler.Close)

		// Notifications
		portal.GET("/notifications", notificationHandler.Unread)
		portal.POST("/notifications/mark-read", notificationHandler.MarkRead)
		portal.GET("/notifications/count", notificationHandler.Count)

		// Doctors
		portal.GET("/doctors", doctorHandler.ListApproved)
		portal.GET("/doctors/me", middlewares.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.GetOwnProfile)
		portal.PUT("/doctors/me", middlewares.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.UpdateOwnProfile)

		// Health profiles
		portal.GET("/patients/:patient_id/health-profile", patientHandler.GetHealthProfile)
		portal.PUT("/patients/:patient_id/health-profile",
			middlewares.RoleAuthMiddleware(models.RoleDoctor),
			patientHandler.UpdateHealthProfile)
	}
}
