package middlewares

import (
	"MediLink/models"
	"MediLink/utils"
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store the actor in the context.
type contextKey string

const actorKey contextKey = "actor"

// Actor is the request-scoped identity resolved at the authentication
// boundary and threaded into every operation. Nothing below the middleware
// reads token or session state directly.
type Actor struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// resolveToken finds the access token on the request: HTTP-only cookie
// first, accessToken query parameter as a fallback for non-browser clients.
func resolveToken(c *gin.Context) string {
	if token, err := c.Cookie(utils.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	return c.DefaultQuery(utils.AccessTokenCookie, "")
}

// TokenAuthMiddleware validates the token and adds the actor to the request
// context. Revoked tokens (logout denylist) are rejected even while their
// expiry has not passed.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := resolveToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, models.RoleAdmin, models.RoleDoctor, models.RolePatient)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		revoked, err := utils.IsTokenRevoked(c.Request.Context(), token)
		if err != nil {
			log.Printf("Failed to check token revocation: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again"})
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), actorKey, Actor{UserID: userID, Role: claims.Role})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RoleAuthMiddleware restricts access to actors holding one of the given roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := CurrentActor(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges"})
		c.Abort()
	}
}

// CurrentActor retrieves the authenticated actor from the context.
func CurrentActor(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok {
		return Actor{}, errors.New("actor not found in context")
	}
	return actor, nil
}
