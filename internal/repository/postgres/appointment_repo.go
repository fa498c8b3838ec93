package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
)

type AppointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

var _ appointment.Repository = (*AppointmentRepo)(nil)

func (r *AppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		// The partial unique index on (doctor_id, date, time_slot) is the
		// last line of defense against racing bookings.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appointment.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("date <= ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var appts []*appointment.Appointment
	err := tx.Order("date DESC, time_slot ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	return &appointment.PagedAppointments{
		Appointments: appts,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, a *appointment.Appointment) error {
	err := r.db.WithContext(ctx).Save(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return appointment.ErrSlotTaken
	}
	return err
}

func (r *AppointmentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepo) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND deleted_at IS NULL", doctorID, date).
		Order("time_slot ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepo) HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time_slot = ? AND status <> ? AND deleted_at IS NULL",
			doctorID, date, timeSlot, appointment.StatusCancelled)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentRepo) ExistsForDoctorPatient(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND patient_id = ? AND deleted_at IS NULL", doctorID, patientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
