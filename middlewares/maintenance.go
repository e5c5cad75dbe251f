package middlewares

import (
	"MediLink/models"
	"MediLink/repositories"
	"MediLink/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaintenanceMiddleware returns 503 to non-admin traffic while the
// maintenance_mode setting is on. Auth routes stay reachable so an admin
// can log in and turn the flag off; this runs before the session guard, so
// it inspects the token itself rather than the request context.
func MaintenanceMiddleware(settings *repositories.SettingsRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !settings.MaintenanceMode(c.Request.Context()) {
			c.Next()
			return
		}

		if c.Request.URL.Path == "/" || strings.HasPrefix(c.Request.URL.Path, "/auth") {
			c.Next()
			return
		}

		if token := resolveToken(c); token != "" {
			if claims, err := utils.ValidateToken(token, models.RoleAdmin); err == nil && claims != nil {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": "The portal is under maintenance. Please try again later.",
		})
	}
}
