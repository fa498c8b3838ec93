package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
)

func setupAppointmentService() (*AppointmentService, *MockAppointmentRepo, *MockDoctorRepo) {
	apptRepo := &MockAppointmentRepo{}
	doctorRepo := &MockDoctorRepo{}
	userRepo := &MockUserRepo{}
	svc := NewAppointmentService(apptRepo, doctorRepo, userRepo, newTestAudit(), nil, nil, zap.NewNop())
	return svc, apptRepo, doctorRepo
}

func patientClaims() *domain.Claims {
	return &domain.Claims{UserID: uuid.New(), Role: domain.RolePatient}
}

func doctorClaims(doctorID uuid.UUID) *domain.Claims {
	return &domain.Claims{UserID: uuid.New(), Role: domain.RoleDoctor, DoctorID: &doctorID}
}

func adminClaims() *domain.Claims {
	return &domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func activeDoctor() *doctordomain.Doctor {
	return &doctordomain.Doctor{ID: uuid.New(), Status: doctordomain.StatusActive}
}

func futureDate() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func futureDateOn(day time.Weekday) time.Time {
	d := futureDate()
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestBook_Success(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	caller := patientClaims()
	doc := activeDoctor()

	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("HasConflict", mock.Anything, doc.ID, futureDate(), "10:00 AM", (*uuid.UUID)(nil)).Return(false, nil)
	apptRepo.On("Create", mock.Anything, mock.AnythingOfType("*appointment.Appointment")).Return(nil)

	a, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{
		DoctorID: doc.ID,
		Date:     futureDate(),
		TimeSlot: "10:00 AM",
		Symptoms: "persistent cough",
	}, caller, "10.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, a.Status)
	assert.Equal(t, caller.UserID, a.PatientID)
	apptRepo.AssertExpectations(t)
}

func TestBook_OnlyPatients(t *testing.T) {
	svc, _, _ := setupAppointmentService()

	_, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{}, adminClaims(), "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Book(context.Background(), &appointment.BookAppointmentCommand{}, doctorClaims(uuid.New()), "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBook_OffGridSlot(t *testing.T) {
	svc, _, _ := setupAppointmentService()

	_, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{
		DoctorID: uuid.New(),
		Date:     futureDate(),
		TimeSlot: "5:30 PM",
	}, patientClaims(), "")

	assert.ErrorIs(t, err, appointment.ErrInvalidTimeSlot)
}

func TestBook_PastDate(t *testing.T) {
	svc, _, _ := setupAppointmentService()

	_, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{
		DoctorID: uuid.New(),
		Date:     time.Now().UTC().AddDate(0, 0, -1),
		TimeSlot: "10:00 AM",
	}, patientClaims(), "")

	assert.ErrorIs(t, err, appointment.ErrScheduledInPast)
}

func TestBook_SlotTaken(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()

	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("HasConflict", mock.Anything, doc.ID, mock.Anything, "10:00 AM", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{
		DoctorID: doc.ID,
		Date:     futureDate(),
		TimeSlot: "10:00 AM",
	}, patientClaims(), "")

	assert.ErrorIs(t, err, appointment.ErrSlotTaken)
	apptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_DoctorNotActive(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := &doctordomain.Doctor{ID: uuid.New(), Status: doctordomain.StatusPending}

	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{
		DoctorID: doc.ID,
		Date:     futureDate(),
		TimeSlot: "10:00 AM",
	}, patientClaims(), "")

	assert.ErrorIs(t, err, doctordomain.ErrNotActive)
	apptRepo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_DayOutsideDoctorSchedule(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	doc.AvailableDays = []string{"Monday"}

	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Book(context.Background(), &appointment.BookAppointmentCommand{
		DoctorID: doc.ID,
		Date:     futureDateOn(time.Sunday),
		TimeSlot: "10:00 AM",
	}, patientClaims(), "")

	assert.ErrorIs(t, err, appointment.ErrDayUnavailable)
	apptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReschedule_DayOutsideDoctorSchedule(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	caller := patientClaims()
	doc := activeDoctor()
	doc.AvailableDays = []string{"Monday", "Tuesday"}
	a := &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: caller.UserID,
		DoctorID:  doc.ID,
		Date:      futureDateOn(time.Monday),
		TimeSlot:  "9:00 AM",
		Status:    appointment.StatusPending,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleAppointmentCommand{
		Date:     futureDateOn(time.Sunday),
		TimeSlot: "2:00 PM",
	}, caller, "")

	assert.ErrorIs(t, err, appointment.ErrDayUnavailable)
	assert.Equal(t, "9:00 AM", a.TimeSlot)
	apptRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAvailableSlots_FiltersBookedAndCancelled(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	date := futureDate()

	appts := []*appointment.Appointment{
		{ID: uuid.New(), TimeSlot: "9:00 AM", Status: appointment.StatusConfirmed},
		{ID: uuid.New(), TimeSlot: "9:30 AM", Status: appointment.StatusCancelled},
	}
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("ListByDoctorDate", mock.Anything, doc.ID, date).Return(appts, nil)

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, date, nil)

	assert.NoError(t, err)
	assert.Len(t, slots, 16)
	assert.NotContains(t, slots, "9:00 AM")
	assert.Contains(t, slots, "9:30 AM", "cancelled appointments free their slot")
}

func TestAvailableSlots_DoctorSubset(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	doc.AvailableSlots = []string{"9:00 AM", "9:30 AM", "10:00 AM"}
	date := futureDate()

	appts := []*appointment.Appointment{
		{ID: uuid.New(), TimeSlot: "9:30 AM", Status: appointment.StatusPending},
	}
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("ListByDoctorDate", mock.Anything, doc.ID, date).Return(appts, nil)

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, date, nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "10:00 AM"}, slots)
}

func TestAvailableSlots_DayOutsideDoctorSchedule(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	doc.AvailableDays = []string{"Monday"}

	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, futureDateOn(time.Sunday), nil)

	assert.NoError(t, err)
	assert.Empty(t, slots)
	apptRepo.AssertNotCalled(t, "ListByDoctorDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailableSlots_FailsClosed(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	date := futureDate()

	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("ListByDoctorDate", mock.Anything, doc.ID, date).Return(nil, errors.New("connection refused"))

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, date, nil)

	assert.ErrorIs(t, err, ErrAvailabilityUnavailable)
	assert.Nil(t, slots, "a failed read must never fabricate free slots")
}

func TestReschedule_Pending(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	caller := patientClaims()
	doc := activeDoctor()
	a := &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: caller.UserID,
		DoctorID:  doc.ID,
		Date:      futureDate(),
		TimeSlot:  "9:00 AM",
		Status:    appointment.StatusPending,
	}
	newDate := futureDate().AddDate(0, 0, 1)

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("HasConflict", mock.Anything, a.DoctorID, newDate, "2:00 PM", &a.ID).Return(false, nil)
	apptRepo.On("Update", mock.Anything, a).Return(nil)

	got, err := svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleAppointmentCommand{
		Date:     newDate,
		TimeSlot: "2:00 PM",
	}, caller, "")

	assert.NoError(t, err)
	assert.Equal(t, "2:00 PM", got.TimeSlot)
	assert.Equal(t, newDate, got.Date)
	apptRepo.AssertExpectations(t)
}

func TestReschedule_ConfirmedRejected(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	caller := patientClaims()
	doc := activeDoctor()
	a := &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: caller.UserID,
		DoctorID:  doc.ID,
		Status:    appointment.StatusConfirmed,
		TimeSlot:  "9:00 AM",
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleAppointmentCommand{
		Date:     futureDate(),
		TimeSlot: "2:00 PM",
	}, caller, "")

	assert.ErrorIs(t, err, appointment.ErrNotReschedulable)
	assert.Equal(t, "9:00 AM", a.TimeSlot)
	apptRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReschedule_OtherPatientsAppointment(t *testing.T) {
	svc, apptRepo, _ := setupAppointmentService()
	a := &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Status:    appointment.StatusPending,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)

	_, err := svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleAppointmentCommand{
		Date:     futureDate(),
		TimeSlot: "2:00 PM",
	}, patientClaims(), "")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancel_ByAssignedDoctor(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	caller := doctorClaims(doc.ID)
	a := &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  doc.ID,
		Status:    appointment.StatusConfirmed,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("Update", mock.Anything, a).Return(nil)

	got, err := svc.Cancel(context.Background(), a.ID, &appointment.CancelAppointmentCommand{Reason: "emergency"}, caller, "")

	assert.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, got.Status)
	assert.Equal(t, "emergency", got.CancellationReason)
}

func TestCancel_SuspendedDoctorBlocked(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := &doctordomain.Doctor{ID: uuid.New(), Status: doctordomain.StatusSuspended}
	caller := doctorClaims(doc.ID)
	a := &appointment.Appointment{
		ID:       uuid.New(),
		DoctorID: doc.ID,
		Status:   appointment.StatusConfirmed,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Cancel(context.Background(), a.ID, &appointment.CancelAppointmentCommand{}, caller, "")

	assert.ErrorIs(t, err, doctordomain.ErrDoctorSuspended)
	assert.Equal(t, appointment.StatusConfirmed, a.Status)
	apptRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirm_SuspendedDoctorBlocked(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := &doctordomain.Doctor{ID: uuid.New(), Status: doctordomain.StatusSuspended}
	caller := doctorClaims(doc.ID)
	a := &appointment.Appointment{
		ID:       uuid.New(),
		DoctorID: doc.ID,
		Status:   appointment.StatusPending,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Confirm(context.Background(), a.ID, caller, "")

	assert.ErrorIs(t, err, doctordomain.ErrDoctorSuspended)
	assert.Equal(t, appointment.StatusPending, a.Status)
	apptRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirm_UnassignedDoctorForbidden(t *testing.T) {
	svc, apptRepo, _ := setupAppointmentService()
	a := &appointment.Appointment{
		ID:       uuid.New(),
		DoctorID: uuid.New(),
		Status:   appointment.StatusPending,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)

	_, err := svc.Confirm(context.Background(), a.ID, doctorClaims(uuid.New()), "")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirm_ThenComplete(t *testing.T) {
	svc, apptRepo, doctorRepo := setupAppointmentService()
	doc := activeDoctor()
	caller := doctorClaims(doc.ID)
	a := &appointment.Appointment{
		ID:       uuid.New(),
		DoctorID: doc.ID,
		Status:   appointment.StatusPending,
	}

	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	doctorRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	apptRepo.On("Update", mock.Anything, a).Return(nil)

	_, err := svc.Confirm(context.Background(), a.ID, caller, "")
	assert.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, a.Status)

	_, err = svc.Complete(context.Background(), a.ID, caller, "")
	assert.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, a.Status)

	// Terminal: nothing further is allowed.
	_, err = svc.Confirm(context.Background(), a.ID, caller, "")
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}

func TestDelete_AdminOnly(t *testing.T) {
	svc, apptRepo, _ := setupAppointmentService()

	err := svc.Delete(context.Background(), uuid.New(), patientClaims(), "")
	assert.ErrorIs(t, err, ErrForbidden)

	a := &appointment.Appointment{ID: uuid.New(), DoctorID: uuid.New()}
	apptRepo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	apptRepo.On("SoftDelete", mock.Anything, a.ID).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), a.ID, adminClaims(), ""))
}

func TestListAppointments_ScopedToCaller(t *testing.T) {
	svc, apptRepo, _ := setupAppointmentService()
	caller := patientClaims()

	apptRepo.On("List", mock.Anything, mock.MatchedBy(func(q *appointment.ListAppointmentsQuery) bool {
		return q.PatientID != nil && *q.PatientID == caller.UserID
	})).Return(&appointment.PagedAppointments{}, nil)

	_, err := svc.ListAppointments(context.Background(), &appointment.ListAppointmentsQuery{}, caller)

	assert.NoError(t, err)
	apptRepo.AssertExpectations(t)
}
