package appointment

import (
	"time"

	"github.com/google/uuid"
)

// State transitions possibilities:
//
//	pending → confirmed → completed
//	pending → cancelled
//	confirmed → cancelled
//
// completed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Feedback struct {
	Rating  int    `json:"rating"` // 1-5
	Comment string `json:"comment"`
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	// Date carries day granularity only (UTC midnight); TimeSlot is a label
	// from the daily grid, e.g. "10:00 AM".
	Date     time.Time `gorm:"column:date;type:date;not null;index"`
	TimeSlot string    `gorm:"column:time_slot;type:varchar(10);not null"`

	Symptoms string `gorm:"column:symptoms;type:text"`
	Status   Status `gorm:"column:status;type:varchar(30);not null;default:'pending';index"`

	Feedback *Feedback `gorm:"column:feedback;serializer:json"`

	// Cancellation tracking
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// CanReschedule reports whether the date/time may still be mutated.
// Only pending appointments are reschedulable.
func (a *Appointment) CanReschedule() bool {
	return a.Status == StatusPending
}

func (a *Appointment) Confirm() error {
	if !a.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusConfirmed
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCompleted
	a.CompletedAt = &now
	return nil
}

func (a *Appointment) Cancel(reason string, cancelledBy uuid.UUID) error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	a.CancelledBy = &cancelledBy
	return nil
}

// Reschedule mutates date and slot. Rejected outside pending so confirmed
// bookings can only be cancelled and rebooked, never silently moved.
func (a *Appointment) Reschedule(date time.Time, timeSlot string) error {
	if !a.CanReschedule() {
		return ErrNotReschedulable
	}
	a.Date = date
	a.TimeSlot = timeSlot
	return nil
}

// AttachFeedback records patient feedback on a completed appointment.
func (a *Appointment) AttachFeedback(rating int, comment string) error {
	if a.Status != StatusCompleted {
		return ErrNotCompleted
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	a.Feedback = &Feedback{Rating: rating, Comment: comment}
	return nil
}

type BookAppointmentCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	TimeSlot  string
	Symptoms  string
	CreatedBy uuid.UUID
}

type RescheduleAppointmentCommand struct {
	Date          time.Time
	TimeSlot      string
	RescheduledBy uuid.UUID
}

type CancelAppointmentCommand struct {
	Reason      string
	CancelledBy uuid.UUID
}

type ListAppointmentsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
