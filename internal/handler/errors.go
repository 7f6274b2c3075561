package handler

import (
	"errors"
	"net/http"

	"gradepay/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps domain errors to HTTP codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient wallet balance"})
	case errors.Is(err, domain.ErrDuplicateOperation):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate operation"})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid state transition"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
