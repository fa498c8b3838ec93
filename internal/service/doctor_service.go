package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/schedule"
)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

type DoctorService struct {
	repo     doctordomain.Repository
	auditSvc *AuditService
	cache    AvailabilityCache
	log      *zap.Logger
}

func NewDoctorService(repo doctordomain.Repository, auditSvc *AuditService, cache AvailabilityCache, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, auditSvc: auditSvc, cache: cache, log: log}
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctordomain.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// ListDoctors returns doctors for the public directory. Non-admin callers
// only ever see active profiles regardless of the requested filter.
func (s *DoctorService) ListDoctors(ctx context.Context, q *doctordomain.ListDoctorsQuery, caller *domain.Claims) (*doctordomain.PagedDoctors, error) {
	if caller == nil || caller.Role != domain.RoleAdmin {
		active := doctordomain.StatusActive
		q.Status = &active
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// UpdateProfile lets a doctor edit their own profile and availability
// subsets. Suspended doctors may still fix their profile; only clinical
// mutations are blocked for them.
func (s *DoctorService) UpdateProfile(ctx context.Context, cmd *doctordomain.UpdateProfileCommand, caller *domain.Claims, ip string) (*doctordomain.Doctor, error) {
	if caller.Role != domain.RoleDoctor || caller.DoctorID == nil {
		return nil, ErrForbidden
	}

	if cmd.AvailableDays != nil {
		for _, day := range *cmd.AvailableDays {
			if !weekdays[day] {
				return nil, doctordomain.ErrInvalidDay
			}
		}
	}
	if cmd.AvailableSlots != nil {
		for _, slot := range *cmd.AvailableSlots {
			if !schedule.IsOnGrid(slot) {
				return nil, doctordomain.ErrInvalidSlot
			}
		}
	}

	doc, err := s.repo.UpdateProfile(ctx, *caller.DoctorID, cmd)
	if err != nil {
		return nil, fmt.Errorf("updating doctor profile: %w", err)
	}

	// An availability-subset change affects every cached date for this
	// doctor; drop them all rather than waiting out the TTL.
	if s.cache != nil && (cmd.AvailableDays != nil || cmd.AvailableSlots != nil) {
		s.cache.InvalidateDoctor(ctx, doc.ID)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "update", ResourceType: "doctor", ResourceID: doc.ID.String(), IPAddress: ip,
	})

	return doc, nil
}

// Moderation actions below are admin only. Each delegates the state rule to
// the aggregate so an illegal transition surfaces as a domain error.

func (s *DoctorService) Approve(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*doctordomain.Doctor, error) {
	return s.moderate(ctx, id, caller, ip, "approve", func(d *doctordomain.Doctor) error {
		return d.Approve(caller.UserID)
	})
}

func (s *DoctorService) Reject(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*doctordomain.Doctor, error) {
	return s.moderate(ctx, id, caller, ip, "reject", func(d *doctordomain.Doctor) error {
		return d.Reject(caller.UserID)
	})
}

func (s *DoctorService) Suspend(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*doctordomain.Doctor, error) {
	return s.moderate(ctx, id, caller, ip, "suspend", func(d *doctordomain.Doctor) error {
		return d.Suspend(caller.UserID)
	})
}

func (s *DoctorService) Reinstate(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*doctordomain.Doctor, error) {
	return s.moderate(ctx, id, caller, ip, "reinstate", func(d *doctordomain.Doctor) error {
		return d.Reinstate(caller.UserID)
	})
}

func (s *DoctorService) moderate(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string, action string, apply func(*doctordomain.Doctor) error) (*doctordomain.Doctor, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(doc); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating doctor status: %w", err)
	}

	s.log.Info("doctor registration moderated",
		zap.String("doctor_id", doc.ID.String()),
		zap.String("action", action),
		zap.String("status", string(doc.Status)),
	)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: caller.UserID, UserRole: string(caller.Role),
		Action: "update", ResourceType: "doctor", ResourceID: doc.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, doc.Status),
	})

	return doc, nil
}
