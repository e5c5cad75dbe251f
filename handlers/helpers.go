package handlers

import (
	"MediLink/middlewares"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// actorFrom pulls the authenticated actor out of the request context. The
// auth middleware guarantees it is present on protected routes; a miss here
// means the route was wired without the middleware.
func actorFrom(c *gin.Context) (middlewares.Actor, bool) {
	actor, err := middlewares.CurrentActor(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return middlewares.Actor{}, false
	}
	return actor, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return value, true
}
