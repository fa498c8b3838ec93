package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/schedule"
)

// Notifier delivers best-effort patient mail. Implementations must be safe
// for concurrent use; failures are logged by the caller, never propagated.
type Notifier interface {
	AppointmentRescheduled(to, patientName, doctorName string, date time.Time, timeSlot string) error
	AppointmentStatusChanged(to, patientName, doctorName, status string, date time.Time, timeSlot string) error
}

// AvailabilityCache is a short-TTL cache of computed availability per
// (doctor, date). A nil cache disables caching.
type AvailabilityCache interface {
	GetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, bool)
	SetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slots []string)
	Invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time)

	// InvalidateDoctor drops every cached date for the doctor, for mutations
	// that change availability across all dates at once.
	InvalidateDoctor(ctx context.Context, doctorID uuid.UUID)
}

type AppointmentService struct {
	repo       appointment.Repository
	doctorRepo doctordomain.Repository
	userRepo   UserRepository
	auditSvc   *AuditService
	notifier   Notifier
	cache      AvailabilityCache
	log        *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctorRepo doctordomain.Repository,
	userRepo UserRepository,
	auditSvc *AuditService,
	notifier Notifier,
	cache AvailabilityCache,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:       repo,
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
		auditSvc:   auditSvc,
		notifier:   notifier,
		cache:      cache,
		log:        log,
	}
}

// AvailableSlots returns the grid slots still free for the doctor on the
// given day, in grid order, intersected with the doctor's configured slot
// subset. excludeID serves reschedule so an appointment's own slot is not
// counted against it. A failed read fails closed: the caller gets an error
// and no slots, never an optimistic free list.
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]string, error) {
	doc, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	date = truncateToDay(date)

	// A day outside the doctor's working subset has no bookable slots.
	if !doc.WorksOn(date) {
		return []string{}, nil
	}

	// The cache only serves the common no-exclusion read; reschedule always
	// recomputes so the edited appointment's slot shows as free.
	if excludeID == nil && s.cache != nil {
		if slots, ok := s.cache.GetSlots(ctx, doctorID, date); ok {
			return slots, nil
		}
	}

	appts, err := s.repo.ListByDoctorDate(ctx, doctorID, date)
	if err != nil {
		s.log.Error("availability fetch failed",
			zap.String("doctor_id", doctorID.String()),
			zap.Time("date", date),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnavailable, err)
	}

	slots := schedule.Intersect(schedule.Available(appts, excludeID), doc.AvailableSlots)

	if excludeID == nil && s.cache != nil {
		s.cache.SetSlots(ctx, doctorID, date, slots)
	}
	return slots, nil
}

// Book creates a pending appointment for the calling patient. The slot must
// be on the grid and free; the conflict check plus the partial unique index
// underneath close the double-booking race.
func (s *AppointmentService) Book(ctx context.Context, cmd *appointment.BookAppointmentCommand, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	if caller.Role != domain.RolePatient {
		return nil, ErrForbidden
	}

	if !schedule.IsOnGrid(cmd.TimeSlot) {
		return nil, appointment.ErrInvalidTimeSlot
	}
	cmd.Date = truncateToDay(cmd.Date)
	if cmd.Date.Before(truncateToDay(time.Now())) {
		return nil, appointment.ErrScheduledInPast
	}

	doc, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !doc.IsActive() {
		return nil, doctordomain.ErrNotActive
	}
	if !doc.WorksOn(cmd.Date) {
		return nil, appointment.ErrDayUnavailable
	}

	conflict, err := s.repo.HasConflict(ctx, cmd.DoctorID, cmd.Date, cmd.TimeSlot, nil)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		return nil, appointment.ErrSlotTaken
	}

	a := &appointment.Appointment{
		PatientID: caller.UserID,
		DoctorID:  cmd.DoctorID,
		Date:      cmd.Date,
		TimeSlot:  cmd.TimeSlot,
		Symptoms:  cmd.Symptoms,
		Status:    appointment.StatusPending,
		CreatedBy: caller.UserID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.invalidate(ctx, a.DoctorID, a.Date)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeRead(a, caller); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "read", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
	})

	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery, caller *domain.Claims) (*appointment.PagedAppointments, error) {
	// Patients and doctors only see their own appointments
	switch caller.Role {
	case domain.RolePatient:
		q.PatientID = &caller.UserID
	case domain.RoleDoctor:
		if caller.DoctorID == nil {
			return nil, ErrForbidden
		}
		q.DoctorID = caller.DoctorID
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// Reschedule moves a pending appointment to a new date/slot. Patients may
// move their own, admins anyone's; the pending-only guard holds for both.
// The patient is notified best-effort after the mutation commits.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleAppointmentCommand, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RolePatient:
		if a.PatientID != caller.UserID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if !schedule.IsOnGrid(cmd.TimeSlot) {
		return nil, appointment.ErrInvalidTimeSlot
	}
	cmd.Date = truncateToDay(cmd.Date)
	if cmd.Date.Before(truncateToDay(time.Now())) {
		return nil, appointment.ErrScheduledInPast
	}

	doc, err := s.doctorRepo.GetByID(ctx, a.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !doc.WorksOn(cmd.Date) {
		return nil, appointment.ErrDayUnavailable
	}

	conflict, err := s.repo.HasConflict(ctx, a.DoctorID, cmd.Date, cmd.TimeSlot, &a.ID)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		return nil, appointment.ErrSlotTaken
	}

	oldDate := a.Date
	if err := a.Reschedule(cmd.Date, cmd.TimeSlot); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.invalidate(ctx, a.DoctorID, oldDate)
	s.invalidate(ctx, a.DoctorID, a.Date)

	s.notifyReschedule(a)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"date":%q,"time_slot":%q}`, a.Date.Format("2006-01-02"), a.TimeSlot),
	})

	return a, nil
}

// Cancel transitions to cancelled. Patients cancel their own appointments,
// doctors the ones assigned to them, admins any.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, cmd *appointment.CancelAppointmentCommand, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RolePatient:
		if a.PatientID != caller.UserID {
			return nil, ErrForbidden
		}
	case domain.RoleDoctor:
		if err := s.requireActingDoctor(ctx, a, caller); err != nil {
			return nil, err
		}
	default:
		return nil, ErrForbidden
	}

	if err := a.Cancel(cmd.Reason, caller.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.invalidate(ctx, a.DoctorID, a.Date)
	s.notifyStatus(a)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"cancelled","reason":%q}`, cmd.Reason),
	})

	return a, nil
}

// Confirm is a doctor action on an assigned pending appointment.
func (s *AppointmentService) Confirm(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	return s.doctorTransition(ctx, id, caller, ip, func(a *appointment.Appointment) error {
		return a.Confirm()
	})
}

// Complete is a doctor action on an assigned confirmed appointment.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	return s.doctorTransition(ctx, id, caller, ip, func(a *appointment.Appointment) error {
		return a.Complete()
	})
}

// Delete soft-deletes an appointment. Admin only.
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}

	s.invalidate(ctx, a.DoctorID, a.Date)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "delete", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

func (s *AppointmentService) doctorTransition(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string, transition func(*appointment.Appointment) error) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireActingDoctor(ctx, a, caller); err != nil {
		return nil, err
	}

	if err := transition(a); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.invalidate(ctx, a.DoctorID, a.Date)
	s.notifyStatus(a)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, a.Status),
	})

	return a, nil
}

// requireActingDoctor verifies the caller is the assigned doctor and that the
// doctor account is not suspended. Suspension blocks every mutation.
func (s *AppointmentService) requireActingDoctor(ctx context.Context, a *appointment.Appointment, caller *domain.Claims) error {
	if caller.Role != domain.RoleDoctor || caller.DoctorID == nil || *caller.DoctorID != a.DoctorID {
		return ErrForbidden
	}
	doc, err := s.doctorRepo.GetByID(ctx, *caller.DoctorID)
	if err != nil {
		return fmt.Errorf("verifying doctor: %w", err)
	}
	if doc.IsSuspended() {
		return doctordomain.ErrDoctorSuspended
	}
	return nil
}

func (s *AppointmentService) authorizeRead(a *appointment.Appointment, caller *domain.Claims) error {
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RolePatient:
		if a.PatientID == caller.UserID {
			return nil
		}
	case domain.RoleDoctor:
		if caller.DoctorID != nil && *caller.DoctorID == a.DoctorID {
			return nil
		}
	}
	return ErrForbidden
}

func (s *AppointmentService) invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, doctorID, date)
	}
}

// notifyReschedule mails the patient about the new date/slot. Fire-and-forget:
// delivery failure is logged, never rolled into the mutation's result.
func (s *AppointmentService) notifyReschedule(a *appointment.Appointment) {
	if s.notifier == nil {
		return
	}
	patient, doctorName, ok := s.notificationParties(a)
	if !ok {
		return
	}
	go func() {
		if err := s.notifier.AppointmentRescheduled(patient.Email, patient.FullName(), doctorName, a.Date, a.TimeSlot); err != nil {
			s.log.Warn("reschedule notification failed",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

func (s *AppointmentService) notifyStatus(a *appointment.Appointment) {
	if s.notifier == nil {
		return
	}
	patient, doctorName, ok := s.notificationParties(a)
	if !ok {
		return
	}
	go func() {
		if err := s.notifier.AppointmentStatusChanged(patient.Email, patient.FullName(), doctorName, string(a.Status), a.Date, a.TimeSlot); err != nil {
			s.log.Warn("status notification failed",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

func (s *AppointmentService) notificationParties(a *appointment.Appointment) (*domain.User, string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	patient, err := s.userRepo.GetByID(ctx, a.PatientID)
	if err != nil {
		s.log.Warn("notification skipped: patient lookup failed", zap.Error(err))
		return nil, "", false
	}
	doctorName := ""
	if doc, err := s.doctorRepo.GetByID(ctx, a.DoctorID); err == nil {
		doctorName = doc.FullName()
	}
	return patient, doctorName, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
