package routes

import (
	"MediLink/cache"
	"MediLink/config"
	"MediLink/controllers"
	"MediLink/handlers"
	"MediLink/middlewares"
	"MediLink/repositories"
	"MediLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, cache)
	doctorRepo := repositories.NewDoctorRepository(db, cache)
	healthRepo := repositories.NewHealthProfileRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db, cache)
	conversationRepo := repositories.NewConversationRepository(db, cache)
	notificationRepo := repositories.NewNotificationRepository(db, cache)
	auditRepo := repositories.NewAuditLogRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db, cache)
	reportRepo := repositories.NewReportRepository(db)

	// The maintenance gate reads settings at request start; admins pass.
	router.Use(middlewares.MaintenanceMiddleware(settingsRepo))

	// Initialize services
	userService := services.NewUserService(userRepo, doctorRepo, healthRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	doctorService := services.NewDoctorService(doctorRepo, notificationService, auditRepo)
	patientService := services.NewPatientService(healthRepo, appointmentRepo, auditRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, doctorRepo, auditRepo)
	conversationService := services.NewConversationService(conversationRepo, userRepo, auditRepo)
	settingsService := services.NewSettingsService(settingsRepo, auditRepo)
	reportService := services.NewReportService(reportRepo, auditRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	patientHandler := handlers.NewPatientHandler(patientService)
	adminHandler := handlers.NewAdminHandler(userService, doctorService, reportService, auditRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Register routes
	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupPortalRoutes(router, appointmentHandler, conversationHandler,
		notificationHandler, doctorHandler, patientHandler)
	controllers.SetupAdminRoutes(router, adminHandler, settingsHandler)
	controllers.SetupRootRoute(router)

	return router
}
