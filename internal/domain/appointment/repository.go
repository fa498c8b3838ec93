package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// Update persists mutations made on a loaded aggregate (status, schedule,
	// feedback, cancellation fields).
	Update(ctx context.Context, a *Appointment) error

	// SoftDelete marks the appointment deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ListByDoctorDate returns every non-deleted appointment for the doctor on
	// the given calendar day. Input to the availability filter.
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)

	// HasConflict checks whether a non-cancelled appointment already occupies
	// the (doctor, date, slot) triple. excludeID skips the appointment being
	// rescheduled. A partial unique index backs this check so racing writers
	// cannot both succeed.
	HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string, excludeID *uuid.UUID) (bool, error)

	// ExistsForDoctorPatient reports whether the doctor has any non-deleted
	// appointment with the patient. Gates doctor access to patient records.
	ExistsForDoctorPatient(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)
}
