package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/transfer_reconciler/internal/apperrors"
	"github.com/SscSPs/transfer_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

// anonymousActor is recorded as the actor when authentication is disabled.
const anonymousActor = "anonymous"

// respondWithError maps a service error onto an HTTP status. Unexpected errors
// are logged and answered with fallback so internals do not leak.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrInvalidOperation):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// actorID returns the authenticated user, or "anonymous" when authentication is disabled.
func actorID(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return userID
	}
	return anonymousActor
}
