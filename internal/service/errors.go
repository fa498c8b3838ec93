package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrForbidden    = errors.New("forbidden: insufficient permissions")
	ErrUserNotFound = errors.New("user not found")

	// ErrAvailabilityUnavailable marks a failed availability read. Callers
	// must treat the day as fully booked (fail-closed) and retry, never
	// fabricate free slots.
	ErrAvailabilityUnavailable = errors.New("could not determine availability, try again")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserID       uuid.UUID
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	StatusCode   int
	Changes      string
}
