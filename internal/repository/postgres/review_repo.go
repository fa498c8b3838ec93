package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain/review"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

var _ review.Repository = (*ReviewRepo)(nil)

func (r *ReviewRepo) Create(ctx context.Context, rev *review.Review) error {
	if err := r.db.WithContext(ctx).Create(rev).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return review.ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&rev, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, review.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepo) Update(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Save(rev).Error
}

func (r *ReviewRepo) List(ctx context.Context, q *review.ListReviewsQuery) (*review.PagedReviews, error) {
	tx := r.db.WithContext(ctx).Model(&review.Review{}).Where("deleted_at IS NULL")

	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var reviews []*review.Review
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return &review.PagedReviews{
		Reviews:    reviews,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}

func (r *ReviewRepo) ListApprovedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*review.Review, error) {
	var reviews []*review.Review
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND status = ? AND deleted_at IS NULL", doctorID, review.StatusApproved).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
