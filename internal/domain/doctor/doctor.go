package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a doctor registration.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	FirstName      string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName       string `gorm:"column:last_name;type:varchar(100);not null"`
	Specialization string `gorm:"column:specialization;type:varchar(100);not null;index"`
	Location       string `gorm:"column:location;type:varchar(255)"`
	Bio            string `gorm:"column:bio;type:text"`
	Education      string `gorm:"column:education;type:text"`
	ExperienceYrs  int    `gorm:"column:experience_yrs"`

	ConsultationFee float64 `gorm:"column:consultation_fee;not null"`

	// Availability subsets: weekday names and labels from the daily slot grid.
	AvailableDays  []string `gorm:"column:available_days;serializer:json"`
	AvailableSlots []string `gorm:"column:available_slots;serializer:json"`

	ProfileImage string `gorm:"column:profile_image;type:varchar(512)"`

	Status Status `gorm:"column:status;type:varchar(20);default:'pending';index"`

	// Moderation trail: who acted on the registration and when
	ReviewedBy *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d *Doctor) IsActive() bool {
	return d.Status == StatusActive && d.DeletedAt == nil
}

// IsSuspended gates every mutating appointment/prescription action at the
// service layer.
func (d *Doctor) IsSuspended() bool {
	return d.Status == StatusSuspended
}

// WorksOn reports whether the doctor takes appointments on the date's
// weekday. An empty AvailableDays list means no restriction, mirroring the
// slot-subset convention.
func (d *Doctor) WorksOn(date time.Time) bool {
	if len(d.AvailableDays) == 0 {
		return true
	}
	day := date.Weekday().String()
	for _, available := range d.AvailableDays {
		if available == day {
			return true
		}
	}
	return false
}

func (d *Doctor) Approve(adminID uuid.UUID) error {
	if d.Status != StatusPending {
		return ErrNotPending
	}
	d.setReviewed(adminID)
	d.Status = StatusActive
	return nil
}

func (d *Doctor) Reject(adminID uuid.UUID) error {
	if d.Status != StatusPending {
		return ErrNotPending
	}
	d.setReviewed(adminID)
	d.Status = StatusRejected
	return nil
}

func (d *Doctor) Suspend(adminID uuid.UUID) error {
	if d.Status != StatusActive {
		return ErrNotActive
	}
	d.setReviewed(adminID)
	d.Status = StatusSuspended
	return nil
}

func (d *Doctor) Reinstate(adminID uuid.UUID) error {
	if d.Status != StatusSuspended {
		return ErrNotSuspended
	}
	d.setReviewed(adminID)
	d.Status = StatusActive
	return nil
}

func (d *Doctor) setReviewed(adminID uuid.UUID) {
	now := time.Now()
	d.ReviewedBy = &adminID
	d.ReviewedAt = &now
}

type RegisterDoctorCommand struct {
	UserID          uuid.UUID
	FirstName       string
	LastName        string
	Specialization  string
	Location        string
	Bio             string
	Education       string
	ExperienceYrs   int
	ConsultationFee float64
	AvailableDays   []string
	AvailableSlots  []string
	ProfileImage    string
}

type UpdateProfileCommand struct {
	Location        *string
	Bio             *string
	Education       *string
	ExperienceYrs   *int
	ConsultationFee *float64
	AvailableDays   *[]string
	AvailableSlots  *[]string
	ProfileImage    *string
}

// ListDoctorsQuery defines filtering and pagination for doctor list queries.
type ListDoctorsQuery struct {
	Specialization string
	Status         *Status
	Page           int
	PageSize       int
}

type PagedDoctors struct {
	Doctors    []*Doctor
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
