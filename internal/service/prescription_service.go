package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
)

type PrescriptionService struct {
	repo       prescription.Repository
	apptRepo   appointment.Repository
	doctorRepo doctordomain.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewPrescriptionService(
	repo prescription.Repository,
	apptRepo appointment.Repository,
	doctorRepo doctordomain.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{repo: repo, apptRepo: apptRepo, doctorRepo: doctorRepo, auditSvc: auditSvc, log: log}
}

// WriteOrUpdate attaches a prescription to a completed appointment. If one
// already exists for the appointment it is updated in place, so a resubmit
// never duplicates; the unique index on appointment_id backs this up at the
// store. Only the assigned, non-suspended doctor may write.
func (s *PrescriptionService) WriteOrUpdate(ctx context.Context, cmd *prescription.WriteOrUpdateCommand, caller *domain.Claims, ip string) (*prescription.Prescription, error) {
	if caller.Role != domain.RoleDoctor || caller.DoctorID == nil {
		return nil, ErrForbidden
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.doctorRepo.GetByID(ctx, *caller.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if doc.IsSuspended() {
		return nil, doctordomain.ErrDoctorSuspended
	}

	a, err := s.apptRepo.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("verifying appointment: %w", err)
	}
	if a.DoctorID != *caller.DoctorID {
		return nil, ErrForbidden
	}
	if a.Status != appointment.StatusCompleted {
		return nil, appointment.ErrNotCompleted
	}

	existing, err := s.repo.GetByAppointmentID(ctx, cmd.AppointmentID)
	switch {
	case err == nil:
		existing.Medications = cmd.Medications
		existing.Notes = cmd.Notes
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("updating prescription: %w", err)
		}
		s.audit(ctx, caller, "update", existing.ID, ip)
		return existing, nil

	case errors.Is(err, prescription.ErrPrescriptionNotFound):
		p := &prescription.Prescription{
			AppointmentID: cmd.AppointmentID,
			PatientID:     a.PatientID,
			DoctorID:      a.DoctorID,
			Medications:   cmd.Medications,
			Notes:         cmd.Notes,
			CreatedBy:     caller.UserID,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("creating prescription: %w", err)
		}
		s.audit(ctx, caller, "create", p.ID, ip)
		return p, nil

	default:
		return nil, fmt.Errorf("looking up prescription: %w", err)
	}
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RolePatient:
		if p.PatientID != caller.UserID {
			return nil, ErrForbidden
		}
	case domain.RoleDoctor:
		if caller.DoctorID == nil || p.DoctorID != *caller.DoctorID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "read", ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
	})

	return p, nil
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, q *prescription.ListPrescriptionsQuery, caller *domain.Claims) (*prescription.PagedPrescriptions, error) {
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

// PrescribingDoctor resolves the doctor record for PDF rendering.
func (s *PrescriptionService) PrescribingDoctor(ctx context.Context, p *prescription.Prescription) (*doctordomain.Doctor, error) {
	return s.doctorRepo.GetByID(ctx, p.DoctorID)
}

func (s *PrescriptionService) audit(ctx context.Context, caller *domain.Claims, action string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: action, ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
	})
}
