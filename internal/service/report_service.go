package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/report"
)

type ReportService struct {
	repo     report.Repository
	apptRepo appointment.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewReportService(repo report.Repository, apptRepo appointment.Repository, auditSvc *AuditService, log *zap.Logger) *ReportService {
	return &ReportService{repo: repo, apptRepo: apptRepo, auditSvc: auditSvc, log: log}
}

// Upload stores report metadata for the calling patient. The file itself
// lives in external storage; only the reference lands here.
func (s *ReportService) Upload(ctx context.Context, cmd *report.UploadReportCommand, caller *domain.Claims, ip string) (*report.Report, error) {
	if caller.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if cmd.Title == "" {
		return nil, report.ErrTitleRequired
	}

	r := &report.Report{
		PatientID: caller.UserID,
		Title:     cmd.Title,
		FileRef:   cmd.FileRef,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "create", ResourceType: "report", ResourceID: r.ID.String(), IPAddress: ip,
	})

	return r, nil
}

// ListForPatient returns the patient's report metadata. Doctors only see
// reports of patients they have an appointment with.
func (s *ReportService) ListForPatient(ctx context.Context, patientID uuid.UUID, caller *domain.Claims) ([]*report.Report, error) {
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RolePatient:
		if patientID != caller.UserID {
			return nil, ErrForbidden
		}
	case domain.RoleDoctor:
		if caller.DoctorID == nil {
			return nil, ErrForbidden
		}
		linked, err := s.apptRepo.ExistsForDoctorPatient(ctx, *caller.DoctorID, patientID)
		if err != nil {
			return nil, fmt.Errorf("verifying doctor-patient link: %w", err)
		}
		if !linked {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *ReportService) Delete(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin && r.PatientID != caller.UserID {
		return ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "delete", ResourceType: "report", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}
