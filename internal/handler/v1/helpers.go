package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/domain/report"
	"github.com/cureconnect/cureconnect/internal/domain/review"
	"github.com/cureconnect/cureconnect/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrSlotTaken),
		errors.Is(err, prescription.ErrDuplicateAppointment),
		errors.Is(err, review.ErrAlreadyReviewed),
		errors.Is(err, doctor.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrNotReschedulable),
		errors.Is(err, appointment.ErrNotCompleted),
		errors.Is(err, appointment.ErrInvalidRating),
		errors.Is(err, appointment.ErrInvalidTimeSlot),
		errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrDayUnavailable),
		errors.Is(err, doctor.ErrNotPending),
		errors.Is(err, doctor.ErrNotActive),
		errors.Is(err, doctor.ErrNotSuspended),
		errors.Is(err, doctor.ErrInvalidDay),
		errors.Is(err, doctor.ErrInvalidSlot),
		errors.Is(err, prescription.ErrNoMedications),
		errors.Is(err, prescription.ErrInvalidMedication),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, report.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, doctor.ErrDoctorSuspended):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: err.Error(),
			Code:  "DOCTOR_SUSPENDED",
		})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})

	case errors.Is(err, service.ErrAvailabilityUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "could not determine availability, try again",
			Code:  "RETRYABLE",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})

	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// parseDate accepts day-granularity ISO dates; any time-of-day component in
// stored appointments was already discarded at write time.
func parseDate(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: key + " query parameter is required (YYYY-MM-DD)"})
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

// callerClaims pulls the session identity the auth middleware stored.
func callerClaims(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return nil, false
	}
	return claims, true
}
