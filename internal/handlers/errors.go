package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates a service error into an HTTP response.
// Validation problems are 400, missing resources 404, ledger rule violations
// 422, and a pending shortfall confirmation 409 with the shortfall amount so
// the client can re-submit with confirmCover set.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var shortfallErr *apperrors.ShortfallConfirmationError
	switch {
	case errors.As(err, &shortfallErr):
		logger.Info("Shortfall confirmation required", slog.String("shortfall", shortfallErr.Shortfall.String()))
		c.JSON(http.StatusConflict, gin.H{
			"error":                shortfallErr.Error(),
			"shortfall":            shortfallErr.Shortfall,
			"confirmationRequired": true,
		})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNegativeBalance),
		errors.Is(err, apperrors.ErrEditLimitExceeded),
		errors.Is(err, apperrors.ErrStaleEditTarget),
		errors.Is(err, apperrors.ErrProtectedAccount),
		errors.Is(err, apperrors.ErrLinkedEntryNotFound):
		logger.Warn("Ledger rule violation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
