package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain/doctor"
)

type DoctorRepo struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepo {
	return &DoctorRepo{db: db}
}

var _ doctor.Repository = (*DoctorRepo)(nil)

func (r *DoctorRepo) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return doctor.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("user_id = ? AND deleted_at IS NULL", userID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) UpdateProfile(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateProfileCommand) (*doctor.Doctor, error) {
	updates := map[string]any{}
	if cmd.Location != nil {
		updates["location"] = *cmd.Location
	}
	if cmd.Bio != nil {
		updates["bio"] = *cmd.Bio
	}
	if cmd.Education != nil {
		updates["education"] = *cmd.Education
	}
	if cmd.ExperienceYrs != nil {
		updates["experience_yrs"] = *cmd.ExperienceYrs
	}
	if cmd.ConsultationFee != nil {
		updates["consultation_fee"] = *cmd.ConsultationFee
	}
	if cmd.ProfileImage != nil {
		updates["profile_image"] = *cmd.ProfileImage
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&doctor.Doctor{}).Where("id = ? AND deleted_at IS NULL", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return doctor.ErrDoctorNotFound
			}
		}

		// Serialized columns go through the model so the JSON serializer runs.
		if cmd.AvailableDays != nil || cmd.AvailableSlots != nil {
			var d doctor.Doctor
			if err := tx.First(&d, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return doctor.ErrDoctorNotFound
				}
				return err
			}
			if cmd.AvailableDays != nil {
				d.AvailableDays = *cmd.AvailableDays
			}
			if cmd.AvailableSlots != nil {
				d.AvailableSlots = *cmd.AvailableSlots
			}
			if err := tx.Save(&d).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *DoctorRepo) UpdateStatus(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("id = ?", d.ID).Updates(map[string]any{
		"status":      d.Status,
		"reviewed_by": d.ReviewedBy,
		"reviewed_at": d.ReviewedAt,
	}).Error
}

func (r *DoctorRepo) List(ctx context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	tx := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("deleted_at IS NULL")

	if q.Specialization != "" {
		tx = tx.Where("specialization = ?", q.Specialization)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var doctors []*doctor.Doctor
	err := tx.Order("last_name ASC, first_name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}

	return &doctor.PagedDoctors{
		Doctors:    doctors,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}
