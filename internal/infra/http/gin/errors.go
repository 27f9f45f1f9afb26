package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "loftcal/internal/app/handlers/availability"
	"loftcal/internal/app/middleware"
	domain "loftcal/internal/domain/availability"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedDate),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, availabilityapp.ErrWindowTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPropertyNotFound),
		errors.Is(err, domain.ErrOverrideNotFound):
		return http.StatusNotFound
	case errors.Is(err, middleware.ErrActorRequired):
		return http.StatusUnauthorized
	case errors.Is(err, middleware.ErrIdempotencyConflict):
		return http.StatusConflict
	case errors.Is(err, availabilityapp.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondWithError(c *gin.Context, logger *slog.Logger, status int, err error) {
	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			"status", status,
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString("request_id"),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func handleError(c *gin.Context, logger *slog.Logger, err error) {
	respondWithError(c, logger, statusFor(err), err)
}
