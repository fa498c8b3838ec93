package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain/prescription"
)

type PrescriptionRepo struct {
	db *gorm.DB
}

func NewPrescriptionRepo(db *gorm.DB) *PrescriptionRepo {
	return &PrescriptionRepo{db: db}
}

var _ prescription.Repository = (*PrescriptionRepo)(nil)

func (r *PrescriptionRepo) Create(ctx context.Context, p *prescription.Prescription) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return prescription.ErrDuplicateAppointment
		}
		return err
	}
	return nil
}

func (r *PrescriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrescriptionRepo) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.db.WithContext(ctx).Where("appointment_id = ? AND deleted_at IS NULL", appointmentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrescriptionRepo) Update(ctx context.Context, p *prescription.Prescription) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PrescriptionRepo) List(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	tx := r.db.WithContext(ctx).Model(&prescription.Prescription{}).Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var prescriptions []*prescription.Prescription
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}

	return &prescription.PagedPrescriptions{
		Prescriptions: prescriptions,
		TotalCount:    total,
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalPages:    int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}
