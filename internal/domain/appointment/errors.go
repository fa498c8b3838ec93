package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotTaken               = errors.New("time slot is already booked for this doctor")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrNotReschedulable        = errors.New("only pending appointments can be rescheduled")
	ErrNotCompleted            = errors.New("appointment is not completed")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrInvalidTimeSlot         = errors.New("time slot is not on the daily grid")
	ErrScheduledInPast         = errors.New("cannot book an appointment in the past")
	ErrDayUnavailable          = errors.New("doctor does not take appointments on this day")
)
