package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/review"
)

type ReviewService struct {
	repo     review.Repository
	apptRepo appointment.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewReviewService(repo review.Repository, apptRepo appointment.Repository, auditSvc *AuditService, log *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, apptRepo: apptRepo, auditSvc: auditSvc, log: log}
}

// Submit records a patient's review of their own completed appointment. The
// rating is also attached to the appointment as feedback. New reviews start
// pending and stay off the public profile until an admin approves them.
func (s *ReviewService) Submit(ctx context.Context, cmd *review.SubmitReviewCommand, caller *domain.Claims, ip string) (*review.Review, error) {
	if caller.Role != domain.RolePatient {
		return nil, ErrForbidden
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a, err := s.apptRepo.GetByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("verifying appointment: %w", err)
	}
	if a.PatientID != caller.UserID {
		return nil, ErrForbidden
	}
	if a.Status != appointment.StatusCompleted {
		return nil, appointment.ErrNotCompleted
	}

	r := &review.Review{
		AppointmentID: cmd.AppointmentID,
		PatientID:     caller.UserID,
		DoctorID:      a.DoctorID,
		Rating:        cmd.Rating,
		Comment:       cmd.Comment,
		Status:        review.StatusPending,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating review: %w", err)
	}

	if err := a.AttachFeedback(cmd.Rating, cmd.Comment); err == nil {
		if err := s.apptRepo.Update(ctx, a); err != nil {
			s.log.Warn("failed to attach feedback to appointment",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "create", ResourceType: "review", ResourceID: r.ID.String(), IPAddress: ip,
	})

	return r, nil
}

// Approve publishes a pending review. Admin only.
func (s *ReviewService) Approve(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*review.Review, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Approve(caller.UserID)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("updating review: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "update", ResourceType: "review", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"status":"approved"}`,
	})

	return r, nil
}

// ListReviews is the admin moderation queue.
func (s *ReviewService) ListReviews(ctx context.Context, q *review.ListReviewsQuery, caller *domain.Claims) (*review.PagedReviews, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// ApprovedForDoctor feeds the public doctor profile.
func (s *ReviewService) ApprovedForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*review.Review, error) {
	return s.repo.ListApprovedByDoctor(ctx, doctorID)
}
