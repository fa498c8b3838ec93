package review

import (
	"time"

	"github.com/google/uuid"
)

// ModerationStatus gates public visibility. Reviews start pending and only
// admin-approved ones appear on a doctor's public profile.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
)

type Review struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	// One review per appointment.
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;uniqueIndex"`
	PatientID     uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID      uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	Rating  int    `gorm:"column:rating;not null"` // 1-5
	Comment string `gorm:"column:comment;type:text"`

	Status ModerationStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`

	ModeratedBy *uuid.UUID `gorm:"column:moderated_by;type:uuid"`
	ModeratedAt *time.Time `gorm:"column:moderated_at"`
}

func (Review) TableName() string {
	return "clinical.reviews"
}

func (r *Review) Approve(adminID uuid.UUID) {
	now := time.Now()
	r.Status = StatusApproved
	r.ModeratedBy = &adminID
	r.ModeratedAt = &now
}

type SubmitReviewCommand struct {
	AppointmentID uuid.UUID
	PatientID     uuid.UUID
	Rating        int
	Comment       string
}

func (c *SubmitReviewCommand) Validate() error {
	if c.Rating < 1 || c.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

type ListReviewsQuery struct {
	DoctorID *uuid.UUID
	Status   *ModerationStatus
	Page     int
	PageSize int
}

type PagedReviews struct {
	Reviews    []*Review
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
