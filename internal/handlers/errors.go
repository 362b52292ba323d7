package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/services"
	"github.com/retailops/backoffice/internal/middleware"
)

// issuerFromRequest names the acting user for audit fields. Authentication is
// out of scope for this service; callers identify themselves via header.
func issuerFromRequest(c *gin.Context) string {
	if user := c.GetHeader("X-User-ID"); user != "" {
		return user
	}
	return "system"
}

// respondServiceError maps service errors onto HTTP statuses: validation
// failures are 400, unknown resources 404, stock shortfalls 422, conflicts
// and exhausted retries 409, everything else 500.
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, services.ErrEmptySale),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientStock):
		logger.Warn("Insufficient stock", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStockConflict),
		errors.Is(err, services.ErrAllocationExhausted),
		errors.Is(err, apperrors.ErrVersionConflict),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
