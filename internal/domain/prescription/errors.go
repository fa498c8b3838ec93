package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrDuplicateAppointment = errors.New("a prescription already exists for this appointment")
	ErrNoMedications        = errors.New("prescription must list at least one medication")
	ErrInvalidMedication    = errors.New("medication entries require a name and dosage")
)
