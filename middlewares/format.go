package middlewares

import (
	"MediLink/repositories"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	c.JSON(status, gin.H{"error": message})
}

// RespondError maps repository errors to HTTP responses. Not-found and
// not-authorized share a response so callers cannot probe for existence;
// validation errors are retry-able; anything else is a generic storage
// failure with the detail kept server-side.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, repositories.ErrNotAuthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repositories.ErrInvalidStatus),
		errors.Is(err, repositories.ErrEmptyMessage),
		errors.Is(err, repositories.ErrConversationExists),
		errors.Is(err, repositories.ErrConversationClosed),
		errors.Is(err, repositories.ErrNotParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("storage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again"})
	}
}
