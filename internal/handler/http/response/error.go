package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/auth"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/notification"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/statistics"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidDate):
		BadRequest(w, "date must be in YYYY-MM-DD format", nil)
	case errors.Is(err, attendance.ErrInvalidWorkMode):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	// Location domain errors
	case errors.Is(err, location.ErrNoPositionReported):
		NotFound(w, "No position reported yet")

	// Statistics domain errors
	case errors.Is(err, statistics.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, statistics.ErrInvalidMonthsCount):
		BadRequest(w, err.Error(), nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrServiceClosed), errors.Is(err, notification.ErrQueueFull):
		ServiceUnavailable(w, err.Error())

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, "Request cancelled")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
