package doctor

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrAlreadyRegistered = errors.New("a doctor profile already exists for this user")
	ErrNotPending        = errors.New("doctor registration is not pending")
	ErrNotActive         = errors.New("doctor is not active")
	ErrNotSuspended      = errors.New("doctor is not suspended")
	ErrDoctorSuspended   = errors.New("action denied: doctor account is suspended")
	ErrInvalidDay        = errors.New("available day must be a weekday name")
	ErrInvalidSlot       = errors.New("available slot must be on the daily grid")
)
