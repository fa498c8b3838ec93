package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain/report"
)

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

var _ report.Repository = (*ReportRepo)(nil)

func (r *ReportRepo) Create(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&rep, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*report.Report, error) {
	var reports []*report.Report
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND deleted_at IS NULL", patientID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&report.Report{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}
