package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/domain/report"
	"github.com/cureconnect/cureconnect/internal/domain/review"
)

// auditRepoStub accepts every entry; audit assertions are out of scope for
// these tests and the worker runs on its own goroutine.
type auditRepoStub struct{}

func (auditRepoStub) Create(context.Context, *domain.AuditLog) error { return nil }

func newTestAudit() *AuditService {
	return NewAuditService(auditRepoStub{}, zap.NewNop())
}

type MockAppointmentRepo struct {
	mock.Mock
}

func (m *MockAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.Appointment), args.Error(1)
}

func (m *MockAppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.PagedAppointments), args.Error(1)
}

func (m *MockAppointmentRepo) Update(ctx context.Context, a *appointment.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAppointmentRepo) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*appointment.Appointment), args.Error(1)
}

func (m *MockAppointmentRepo) HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, doctorID, date, timeSlot, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepo) ExistsForDoctorPatient(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, doctorID, patientID)
	return args.Bool(0), args.Error(1)
}

type MockDoctorRepo struct {
	mock.Mock
}

func (m *MockDoctorRepo) Create(ctx context.Context, d *doctordomain.Doctor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*doctordomain.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctordomain.Doctor), args.Error(1)
}

func (m *MockDoctorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctordomain.Doctor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctordomain.Doctor), args.Error(1)
}

func (m *MockDoctorRepo) UpdateProfile(ctx context.Context, id uuid.UUID, cmd *doctordomain.UpdateProfileCommand) (*doctordomain.Doctor, error) {
	args := m.Called(ctx, id, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctordomain.Doctor), args.Error(1)
}

func (m *MockDoctorRepo) UpdateStatus(ctx context.Context, d *doctordomain.Doctor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDoctorRepo) List(ctx context.Context, q *doctordomain.ListDoctorsQuery) (*doctordomain.PagedDoctors, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctordomain.PagedDoctors), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	args := m.Called(ctx, id, success)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepo) SetDoctorID(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	args := m.Called(ctx, id, doctorID)
	return args.Error(0)
}

type MockPrescriptionRepo struct {
	mock.Mock
}

func (m *MockPrescriptionRepo) Create(ctx context.Context, p *prescription.Prescription) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prescription.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepo) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*prescription.Prescription, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prescription.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepo) Update(ctx context.Context, p *prescription.Prescription) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPrescriptionRepo) List(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prescription.PagedPrescriptions), args.Error(1)
}

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepo) Update(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepo) List(ctx context.Context, q *review.ListReviewsQuery) (*review.PagedReviews, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.PagedReviews), args.Error(1)
}

func (m *MockReviewRepo) ListApprovedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*review.Review, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*review.Review), args.Error(1)
}

type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) GetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, bool) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]string), args.Bool(1)
}

func (m *MockAvailabilityCache) SetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slots []string) {
	m.Called(ctx, doctorID, date, slots)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	m.Called(ctx, doctorID, date)
}

func (m *MockAvailabilityCache) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	m.Called(ctx, doctorID)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, r *report.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*report.Report, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.Report), args.Error(1)
}

func (m *MockReportRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
