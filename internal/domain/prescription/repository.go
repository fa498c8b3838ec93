package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)

	// GetByAppointmentID drives create-vs-update on submit. Returns
	// ErrPrescriptionNotFound when the appointment has none yet.
	GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error)

	// Update replaces medications and notes on an existing prescription.
	Update(ctx context.Context, p *Prescription) error

	List(ctx context.Context, q *ListPrescriptionsQuery) (*PagedPrescriptions, error)
}
