package report

import (
	"time"

	"github.com/google/uuid"
)

// Report is patient-uploaded medical report metadata. The file bytes live in
// external storage; only the reference is persisted here.
type Report struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Title   string `gorm:"column:title;type:varchar(255);not null"`
	FileRef string `gorm:"column:file_ref;type:varchar(512);not null"`
}

func (Report) TableName() string {
	return "clinical.reports"
}

type UploadReportCommand struct {
	PatientID uuid.UUID
	Title     string
	FileRef   string
}
