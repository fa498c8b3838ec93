package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one entry on a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`    // e.g. "500mg"
	Frequency string `json:"frequency"` // e.g. "twice daily"
	Duration  string `json:"duration"`  // e.g. "7 days"
}

type Prescription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	// One prescription per appointment; a unique index enforces it.
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;uniqueIndex"`
	PatientID     uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID      uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	Medications []Medication `gorm:"column:medications;serializer:json"`
	Notes       string       `gorm:"column:notes;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

type WriteOrUpdateCommand struct {
	AppointmentID uuid.UUID
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	Medications   []Medication
	Notes         string
	CreatedBy     uuid.UUID
}

func (c *WriteOrUpdateCommand) Validate() error {
	if len(c.Medications) == 0 {
		return ErrNoMedications
	}
	for _, m := range c.Medications {
		if m.Name == "" || m.Dosage == "" {
			return ErrInvalidMedication
		}
	}
	return nil
}

type ListPrescriptionsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Page      int
	PageSize  int
}

type PagedPrescriptions struct {
	Prescriptions []*Prescription
	TotalCount    int64
	Page          int
	PageSize      int
	TotalPages    int
}
