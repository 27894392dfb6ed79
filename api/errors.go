package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muradsh/artmarket/internal/domain"
)

// statusFor maps domain error kinds to HTTP statuses. Business rejections are
// conflicts with current state, so they map to 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotAvailable),
		errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrTimeConflict),
		errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// requireUserID reads the caller identity set by the authentication layer.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
		return "", false
	}
	return userID, true
}

func userRole(c *gin.Context) string {
	return c.GetHeader("X-User-Role")
}
